package tools

// CommandSpec is an ordered argv vector for a single tool (spec §3/§4.1).
// Program and fixed arguments are compile-time constants; only the
// path-parameterized tool ever derives a value (its working directory) from
// model-supplied content, and that value passes through Sanitize first.
type CommandSpec struct {
	Argv []string
}

// ToolDescriptor is the catalog entry advertised to the upstream model and
// consulted by the Tool Executor for dispatch (spec §4.1).
type ToolDescriptor struct {
	Name          string
	Description   string
	Parameters    map[string]any
	Command       CommandSpec
	PathParam     bool
	EmptyFallback string
}

const pathArgName = "path"

var noParamsSchema = map[string]any{
	"type":                 "object",
	"properties":           map[string]any{},
	"additionalProperties": false,
}

var pathParamSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		pathArgName: map[string]any{
			"type":        "string",
			"description": "Relative path to list, confined to the process working directory. Defaults to \".\".",
		},
	},
	"additionalProperties": false,
}

// catalog is the fixed set of tools this gateway exposes. Order is stable
// so the advertised tool list is deterministic across iterations (spec §4.5
// "the same catalog is re-sent every time").
var catalog = []ToolDescriptor{
	{
		Name:        "get_cwd",
		Description: "Return the current working directory of the host process.",
		Parameters:  noParamsSchema,
		Command:     CommandSpec{Argv: []string{"pwd"}},
	},
	{
		Name:        "project_tree",
		Description: "Return a depth-limited tree view of the project, excluding common build-artifact directories.",
		Parameters:  noParamsSchema,
		Command:     CommandSpec{Argv: []string{"tree", "-L", "3", "-I", "node_modules|.git|vendor|dist|build"}},
	},
	{
		Name:        "list_files",
		Description: "List the files in the current working directory, including hidden files.",
		Parameters:  noParamsSchema,
		Command:     CommandSpec{Argv: []string{"ls", "-la"}},
	},
	{
		Name:          "list_files_in_path",
		Description:   "List the files in a caller-provided relative path, confined to the project working directory.",
		Parameters:    pathParamSchema,
		Command:       CommandSpec{Argv: []string{"ls", "-la"}},
		PathParam:     true,
		EmptyFallback: "(empty directory)",
	},
	{
		Name:        "current_time",
		Description: "Return the current wall-clock time in UTC.",
		Parameters:  noParamsSchema,
		Command:     CommandSpec{Argv: []string{"date", "-u"}},
	},
	{
		Name:        "disk_usage",
		Description: "Return host disk usage in human-readable form.",
		Parameters:  noParamsSchema,
		Command:     CommandSpec{Argv: []string{"df", "-h"}},
	},
	{
		Name:        "os_info",
		Description: "Return host OS and kernel identity.",
		Parameters:  noParamsSchema,
		Command:     CommandSpec{Argv: []string{"uname", "-a"}},
	},
	{
		Name:        "go_version",
		Description: "Return the Go runtime version installed on the host.",
		Parameters:  noParamsSchema,
		Command:     CommandSpec{Argv: []string{"go", "version"}},
	},
	{
		Name:        "git_status",
		Description: "Return the short-form VCS status and branch of the project working directory.",
		Parameters:  noParamsSchema,
		Command:     CommandSpec{Argv: []string{"git", "status", "--short", "--branch"}},
	},
}
