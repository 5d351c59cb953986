package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions. Descriptions are written for the calling agent, not
// for humans browsing the code.

var saveToolDef = mcp.NewTool("file_save",
	mcp.WithDescription("Save content as a file in a storage category. Structured data is stored as indented JSON; strings are stored as-is."),
	mcp.WithString("category", mcp.Required(), mcp.Description("Storage category name, e.g. 'scraped' or 'reports'")),
	mcp.WithString("file_name", mcp.Required(), mcp.Description("File name, optionally with subdirectories like 'sub/page.html'")),
	mcp.WithString("content", mcp.Required(), mcp.Description("File content")),
	mcp.WithBoolean("overwrite", mcp.Description("Replace an existing file (default true)")),
	mcp.WithBoolean("append", mcp.Description("Append to an existing file instead of replacing it")),
	mcp.WithBoolean("sanitize_filename", mcp.Description("Rewrite unsafe characters in the file name instead of rejecting it")),
)

var getToolDef = mcp.NewTool("file_get",
	mcp.WithDescription("Read a stored file. JSON and YAML files are decoded; everything else is returned as text."),
	mcp.WithString("category", mcp.Required(), mcp.Description("Storage category name")),
	mcp.WithString("file_name", mcp.Required(), mcp.Description("File name within the category")),
)

var listToolDef = mcp.NewTool("file_list",
	mcp.WithDescription("List files in a storage category, with optional search, sorting, and per-file stats."),
	mcp.WithString("category", mcp.Description("Storage category name; empty lists the storage root")),
	mcp.WithString("search", mcp.Description("Case-insensitive substring filter on file names")),
	mcp.WithBoolean("include_stats", mcp.Description("Include size and timestamps per file")),
	mcp.WithString("sort_by", mcp.Description("Sort key: name, size, or date")),
	mcp.WithString("sort_order", mcp.Description("asc (default) or desc")),
)

var deleteToolDef = mcp.NewTool("file_delete",
	mcp.WithDescription("Delete a stored file. Directories cannot be deleted through this tool."),
	mcp.WithString("category", mcp.Required(), mcp.Description("Storage category name")),
	mcp.WithString("file_name", mcp.Required(), mcp.Description("File name within the category")),
)

var copyToolDef = mcp.NewTool("file_copy",
	mcp.WithDescription("Copy a stored file into another category."),
	mcp.WithString("source_category", mcp.Required(), mcp.Description("Category holding the source file")),
	mcp.WithString("source_file_name", mcp.Required(), mcp.Description("Source file name")),
	mcp.WithString("target_category", mcp.Required(), mcp.Description("Destination category")),
	mcp.WithString("target_file_name", mcp.Description("Destination file name (defaults to the source name)")),
	mcp.WithBoolean("overwrite", mcp.Description("Replace an existing destination file")),
)

var moveToolDef = mcp.NewTool("file_move",
	mcp.WithDescription("Move a stored file into another category. The result reports partial success when the copy landed but the source could not be removed."),
	mcp.WithString("source_category", mcp.Required(), mcp.Description("Category holding the source file")),
	mcp.WithString("source_file_name", mcp.Required(), mcp.Description("Source file name")),
	mcp.WithString("target_category", mcp.Required(), mcp.Description("Destination category")),
	mcp.WithString("target_file_name", mcp.Description("Destination file name (defaults to the source name)")),
	mcp.WithBoolean("overwrite", mcp.Description("Replace an existing destination file")),
)

var folderCreateToolDef = mcp.NewTool("folder_create",
	mcp.WithDescription("Create a subdirectory under a category. The new folder becomes addressable as a category of its own."),
	mcp.WithString("category", mcp.Required(), mcp.Description("Parent category name")),
	mcp.WithString("folder_name", mcp.Required(), mcp.Description("Name of the folder to create")),
)

var logQueryToolDef = mcp.NewTool("log_query",
	mcp.WithDescription("Query the in-memory log buffer with optional severity, search, and limit filters."),
	mcp.WithString("level", mcp.Description("Maximum severity tier to include: error, warning, info, success, or debug")),
	mcp.WithString("search", mcp.Description("Case-insensitive substring match over messages and attached error messages")),
	mcp.WithNumber("limit", mcp.Description("Keep only the most recent N matches")),
)

var logSetLevelToolDef = mcp.NewTool("log_set_level",
	mcp.WithDescription("Change the minimum severity recorded by the log store."),
	mcp.WithString("level", mcp.Required(), mcp.Description("New minimum level: error, warning, info, or debug")),
)
