package combine

// ContentMarker is replaced by the assembled content in a template.
const ContentMarker = "{{content}}"

// Candidate is a file selected by traversal, pending transformation.
type Candidate struct {
	Path string // The file path, joined onto the traversal root as given.
	Name string // The base name of Path.
}

// BlockKind tags a Block as text or image content.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockImage
)

// Block is the delimited text spliced into the output for one candidate.
type Block struct {
	Candidate Candidate
	Kind      BlockKind
	Text      string
	Omitted   bool // The file produced no output (images with ImageNone).
}

// Result summarises a successful pipeline run.
type Result struct {
	Success        bool
	FileCount      int      // Number of files written into the output.
	OutputFile     string   // The output path as given by the caller.
	ProcessedFiles []string // Paths of the processed files, in output order.
	Skipped        []string // Files dropped because they could not be read.
	Changed        bool     // Check mode: the output differs from the existing file.
	Diff           string   // Check mode: pretty-printed difference, empty when unchanged.
}
