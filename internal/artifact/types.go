// Package artifact defines the filesystem-level contracts the pipeline steps
// exchange. Each step writes one or more named JSON files into the subject's
// output directory; later steps and the generation stage consume them by name.

package artifact

// Mode selects which required-artifact set applies to a subject. It is fixed
// once per run and never changes mid-run.
type Mode string

const (
	// ModePaired subjects produce parallel search and detail form definitions.
	ModePaired Mode = "paired"
	// ModeSingle subjects produce one combined form definition.
	ModeSingle Mode = "single"
)

// Artifact filenames produced by the analysis pipeline. Steps 1-9 are common
// to both modes; the step-10 structural definitions differ per mode.
const (
	AnalysisJSON      = "analysis.json"
	FieldsJSON        = "fields.json"
	ValidationsJSON   = "validations.json"
	LookupsJSON       = "lookups.json"
	RelationshipsJSON = "relationships.json"
	TabsJSON          = "tabs.json"
	ActionsJSON       = "actions.json"
	PermissionsJSON   = "permissions.json"
	LayoutJSON        = "layout.json"

	SearchFormJSON = "searchForm.json"
	DetailFormJSON = "detailForm.json"
	FormJSON       = "form.json"

	// ClassificationJSON is written by the orchestrator before the generation
	// stage; it maps image categories to the reference files discovered on disk.
	ClassificationJSON = "imageClassification.json"
)

// ImagesDir is the subdirectory of a subject's output directory that holds
// auxiliary reference images for the generation stage.
const ImagesDir = "images"

// TemplatesDir is the subdirectory the generation stage writes its layered
// output into. DeploymentCopier mirrors subtrees of it.
const TemplatesDir = "templates"

// Step records one stage of the fixed pipeline and the artifact set it
// produces. A step is skippable only when every artifact it produces exists.
type Step struct {
	Index     int
	Artifacts []string
}

var commonSteps = []Step{
	{Index: 1, Artifacts: []string{AnalysisJSON}},
	{Index: 2, Artifacts: []string{FieldsJSON}},
	{Index: 3, Artifacts: []string{ValidationsJSON}},
	{Index: 4, Artifacts: []string{LookupsJSON}},
	{Index: 5, Artifacts: []string{RelationshipsJSON}},
	{Index: 6, Artifacts: []string{TabsJSON}},
	{Index: 7, Artifacts: []string{ActionsJSON}},
	{Index: 8, Artifacts: []string{PermissionsJSON}},
	{Index: 9, Artifacts: []string{LayoutJSON}},
}

// Steps returns the ordered step table for a mode. The slice is freshly
// allocated so callers may not corrupt the table.
func Steps(mode Mode) []Step {
	steps := make([]Step, 0, len(commonSteps)+1)
	steps = append(steps, commonSteps...)
	if mode == ModeSingle {
		steps = append(steps, Step{Index: 10, Artifacts: []string{FormJSON}})
	} else {
		steps = append(steps, Step{Index: 10, Artifacts: []string{SearchFormJSON, DetailFormJSON}})
	}
	return steps
}

// Required flattens the step table into the ordered list of artifact names a
// subject must have before the generation stage may run.
func Required(mode Mode) []string {
	var names []string
	for _, step := range Steps(mode) {
		names = append(names, step.Artifacts...)
	}
	return names
}

// PairedMarkers are the artifacts whose presence implies a subject was
// analyzed in paired mode.
func PairedMarkers() []string {
	return []string{SearchFormJSON, DetailFormJSON}
}

// SingleMarker is the artifact whose presence implies single mode.
const SingleMarker = FormJSON
