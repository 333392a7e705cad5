package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptService_DefaultProfile(t *testing.T) {
	svc := NewPromptService()

	prompt := svc.Get("", "")
	assert.NotEmpty(t, prompt)
	assert.Equal(t, svc.Get(PROMPT_PROFILE_DEFAULT, ""), prompt)
}

func TestPromptService_UnknownProfileFallsBack(t *testing.T) {
	svc := NewPromptService()
	assert.Equal(t, svc.Get(PROMPT_PROFILE_DEFAULT, ""), svc.Get("no-such-profile", ""))
}

func TestPromptService_KnownProfiles(t *testing.T) {
	svc := NewPromptService()

	financial := svc.Get(PROMPT_PROFILE_FINANCIAL, "")
	summary := svc.Get(PROMPT_PROFILE_SUMMARY, "")
	assert.NotEmpty(t, financial)
	assert.NotEmpty(t, summary)
	assert.NotEqual(t, financial, summary)
}

func TestPromptService_CustomPromptWins(t *testing.T) {
	svc := NewPromptService()
	assert.Equal(t, "use exactly this", svc.Get(PROMPT_PROFILE_FINANCIAL, "use exactly this"))
}

func TestPromptService_Profiles(t *testing.T) {
	svc := NewPromptService()
	profiles := svc.Profiles()

	require.NotEmpty(t, profiles)
	assert.Contains(t, profiles, PROMPT_PROFILE_DEFAULT)
	assert.Contains(t, profiles, PROMPT_PROFILE_FINANCIAL)
	assert.Contains(t, profiles, PROMPT_PROFILE_SUMMARY)
}
