package core

// ReplayToken resends the last stored answer for the session. It is the
// recovery path for answers that missed the synchronous reply deadline.
const ReplayToken = "1"

// ReplaySeparator joins the question and answer in a replayed reply.
const ReplaySeparator = "\n------------\n"

const (
	ReplyCleared = "✅ Conversation history cleared."

	ReplyHelp = `Chat command guide

Usage:
    /clear    forget the conversation so far
    /help     show this help
    1         resend the last answer`

	ReplyApology = "That one was too hard for me, something went wrong. Please try again."

	ReplyStillThinking = "Still thinking... Send \"1\" in a moment to fetch the answer."

	ReplyNothingToReplay = "Nothing to replay yet. Ask me something first."
)
