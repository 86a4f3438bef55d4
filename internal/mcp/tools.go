package mcp

import "github.com/mark3labs/mcp-go/mcp"

var searchVersesTool = mcp.NewTool("search_verses",
	mcp.WithDescription("Search Bhagavad Gita verses and verse passages related to a question or life situation. Results are ranked by relevance."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Question or situation in natural language"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 8)"),
	),
	mcp.WithNumber("chapter",
		mcp.Description("Only search verses of this chapter"),
	),
)

var buildContextTool = mcp.NewTool("build_context",
	mcp.WithDescription("Assemble the most relevant verses for a question into a context block that fits a character budget, along with the themes the question touches."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Question in natural language"),
	),
	mcp.WithNumber("max_chars",
		mcp.Description("Character budget for the context (default 2000)"),
	),
)

var getVerseContextTool = mcp.NewTool("get_verse_context",
	mcp.WithDescription("Get a verse together with its neighboring verses from the same chapter."),
	mcp.WithNumber("chapter",
		mcp.Required(),
		mcp.Description("Chapter number, from 1"),
	),
	mcp.WithNumber("verse",
		mcp.Required(),
		mcp.Description("Verse number, from 1"),
	),
	mcp.WithNumber("radius",
		mcp.Description("Number of verses on each side (default 2)"),
	),
)

var indexStatsTool = mcp.NewTool("index_stats",
	mcp.WithDescription("Report whether the verse index is built, how many units it holds, and the embedding model used."),
)
