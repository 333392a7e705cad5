package service

const (
	PROMPT_PROFILE_DEFAULT   = "default"
	PROMPT_PROFILE_FINANCIAL = "financial"
	PROMPT_PROFILE_SUMMARY   = "summary"
)

var builtinPrompts = map[string]string{
	PROMPT_PROFILE_DEFAULT: "You are a document transcription assistant. " +
		"Convert the page content you are given into clean Markdown. " +
		"Preserve headings, tables and numbers exactly. " +
		"Do not add commentary and do not omit content.",
	PROMPT_PROFILE_FINANCIAL: "You are a financial report analyst. " +
		"Convert the page content of this financial report into structured Markdown. " +
		"Keep every figure, ratio and table intact, render tables as Markdown tables, " +
		"and keep section headings. Do not summarize or interpret.",
	PROMPT_PROFILE_SUMMARY: "You are a financial report summarizer. " +
		"Rewrite the page content as concise Markdown bullet points covering the key " +
		"facts and figures on this page. Keep all numbers exact.",
}

// PromptService resolves extraction prompt profiles.
type PromptService struct {
	prompts map[string]string
}

func NewPromptService() *PromptService {
	prompts := make(map[string]string, len(builtinPrompts))
	for name, prompt := range builtinPrompts {
		prompts[name] = prompt
	}
	return &PromptService{prompts: prompts}
}

// Get resolves a profile name to its prompt. A non-empty custom prompt wins
// over any profile; unknown or empty profiles fall back to the default.
func (s *PromptService) Get(profile, custom string) string {
	if custom != "" {
		return custom
	}
	if prompt, ok := s.prompts[profile]; ok {
		return prompt
	}
	return s.prompts[PROMPT_PROFILE_DEFAULT]
}

// Profiles lists the registered profile names.
func (s *PromptService) Profiles() []string {
	names := make([]string, 0, len(s.prompts))
	for name := range s.prompts {
		names = append(names, name)
	}
	return names
}
