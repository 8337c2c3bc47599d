package protocol

// SaveInstruction asks the assistant to restate the final recipe in the
// format Parse understands.
const SaveInstruction = "Please prepare the final version of this recipe for the review modal. " +
	"Use the tags TITLE:, INGREDIENTS:, and INSTRUCTIONS:. " +
	"Crucially, use vertical bars '|' to separate the recipe, the emoji, and your closing remarks. " +
	"Format exactly like this:\n" +
	"...end of instructions... | [Insert 1 Emoji Here] | [Closing remarks]"
