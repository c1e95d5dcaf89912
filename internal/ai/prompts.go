package ai

import "fmt"

func summarizePrompt(content string) string {
	return "Summarize this note:\n\n" + content
}

func keywordsPrompt(content string) string {
	return "Extract important keywords from this note. Return them as a comma-separated list:\n\n" + content
}

func rewritePrompt(content string) string {
	return "Rewrite this note in a clearer and more concise way:\n\n" + content
}

func askPrompt(content, question string) string {
	return "You are a helpful study assistant. Using ONLY the following note content, answer the user's question clearly and concisely.\n\n" +
		"--- NOTE CONTENT START ---\n" + content + "\n--- NOTE CONTENT END ---\n\n" +
		"Question: " + question
}

func quizPrompt(content string, n int) string {
	return fmt.Sprintf("Create a multiple choice quiz with %d questions based on the note content below.\n\n", n) +
		`Return ONLY raw JSON (no Markdown, no backticks) matching exactly this schema: { "questions": [ { "question": string, "options": [string, string, string, string], "correctIndex": number, "explanation": string } ] }.` + "\n" +
		"- Ensure exactly 4 options per question.\n" +
		`- "correctIndex" must be an integer 0-3.` + "\n" +
		"- Keep explanations concise.\n\n" +
		"Note content:\n" + content
}
