package extraction

import "strings"

// Prompt is the fixed instruction sent with every source.
const Prompt = "Extract information from the job posting: company, role (job position), " +
	"salary (+ currency) if applicable, contact (email or phone number of a recruiter) " +
	"if applicable, requirements (array). If there are multiple job postings, focus only " +
	"on the one with the longest description. You should only return a JSON object."

// BuildPrompt appends the loaded source text to prompt.
func BuildPrompt(prompt, content string) string {
	var b strings.Builder
	b.Grow(len(prompt) + len(content) + 32)
	b.WriteString(prompt)
	b.WriteString("\n\n### SOURCE\n")
	b.WriteString(content)
	return b.String()
}
