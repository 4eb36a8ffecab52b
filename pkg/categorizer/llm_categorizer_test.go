package categorizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hush/internal/analysis"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock OpenAI Client ---
type mockOpenAIClient struct {
	mockResponse openai.ChatCompletionResponse
	mockError    error
	lastRequest  openai.ChatCompletionRequest
}

func (m *mockOpenAIClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.lastRequest = req
	if m.mockError != nil {
		return openai.ChatCompletionResponse{}, m.mockError
	}
	return m.mockResponse, nil
}

func replyWith(content string) *mockOpenAIClient {
	return &mockOpenAIClient{mockResponse: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
	}}
}

// --- Mock Completer ---
type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockCompleter) Name() string { return "mock" }

const confession = "I told my family I quit my job and I feel hopeful"

func TestLLMAnalyzer_ParsesModelReply(t *testing.T) {
	client := replyWith(`{"mood":"Hopeful","tags":["work","family"],"viral_score":0.6,"content_quality":80,"crisis_level":"none","suggestions":["Add detail"]}`)
	a := NewLLMAnalyzer(NewOpenAICompleter(client, "gpt-test"), "")

	got, err := a.Analyze(context.Background(), confession)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, analysis.MoodHopeful, got.Mood)
	assert.Equal(t, []string{"work", "family"}, got.Tags)
	assert.Equal(t, 0.6, got.ViralScore)
	assert.Equal(t, 80, got.ContentQuality)
	assert.Equal(t, analysis.CrisisNone, got.CrisisLevel)
	assert.Equal(t, []string{"Add detail"}, got.Suggestions)

	assert.Equal(t, "gpt-test", client.lastRequest.Model)
	require.Len(t, client.lastRequest.Messages, 1)
	assert.Contains(t, client.lastRequest.Messages[0].Content, confession)
	assert.Contains(t, client.lastRequest.Messages[0].Content, `"relationship"`)
	assert.NotContains(t, client.lastRequest.Messages[0].Content, "{{TEXT}}")
}

func TestLLMAnalyzer_UnknownValuesAreNormalized(t *testing.T) {
	client := replyWith("```json\n{\"mood\":\"melancholy\",\"crisis_level\":\"severe\"}\n```")
	a := NewLLMAnalyzer(NewOpenAICompleter(client, "gpt-test"), "")

	got, err := a.Analyze(context.Background(), confession)
	require.NoError(t, err)
	assert.Empty(t, got.Mood, "unknown mood is left unset")
	assert.Equal(t, analysis.CrisisNone, got.CrisisLevel)
}

func TestLLMAnalyzer_MissingMoodIsUnset(t *testing.T) {
	client := replyWith(`{"crisis_level":"none","tags":["work"]}`)
	a := NewLLMAnalyzer(NewOpenAICompleter(client, "gpt-test"), "")

	got, err := a.Analyze(context.Background(), confession)
	require.NoError(t, err)
	assert.Empty(t, got.Mood)
	assert.Equal(t, []string{"work"}, got.Tags)
}

func TestLLMAnalyzer_InvalidJSON(t *testing.T) {
	invalid := `This is just plain text, not JSON.`
	a := NewLLMAnalyzer(NewOpenAICompleter(replyWith(invalid), "gpt-test"), "")

	_, err := a.Analyze(context.Background(), confession)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse LLM response as JSON")
	assert.Contains(t, err.Error(), invalid)
}

func TestLLMAnalyzer_APIError(t *testing.T) {
	mockErr := errors.New("simulated API error 429 Too Many Requests")
	a := NewLLMAnalyzer(NewOpenAICompleter(&mockOpenAIClient{mockError: mockErr}, "gpt-test"), "")

	_, err := a.Analyze(context.Background(), confession)
	require.Error(t, err)
	assert.ErrorIs(t, err, mockErr)
	assert.Contains(t, err.Error(), "openai chat completion failed")
}

func TestLLMAnalyzer_EmptyResponse(t *testing.T) {
	client := &mockOpenAIClient{mockResponse: openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{}}}
	a := NewLLMAnalyzer(NewOpenAICompleter(client, "gpt-test"), "")

	_, err := a.Analyze(context.Background(), confession)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices returned from OpenAI")
}

func TestLLMAnalyzer_ShortTextIsNotSent(t *testing.T) {
	m := &mockCompleter{}
	a := NewLLMAnalyzer(m, "")

	got, err := a.Analyze(context.Background(), "too short")
	require.NoError(t, err)
	assert.Nil(t, got)
	m.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestLLMAnalyzer_CustomPrompt(t *testing.T) {
	m := &mockCompleter{}
	m.On("Complete", mock.Anything, "Rate: "+confession).Return(`{"mood":"sad"}`, nil).Once()

	a := NewLLMAnalyzer(m, "Rate: {{TEXT}}")
	got, err := a.Analyze(context.Background(), confession)
	require.NoError(t, err)
	assert.Equal(t, analysis.MoodSad, got.Mood)
	assert.Equal(t, "mock", a.Name())
	m.AssertExpectations(t)
}

type fakeGenerator struct {
	resp *genai.GenerateContentResponse
	err  error
	got  []genai.Part
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.got = parts
	return f.resp, f.err
}

func TestGeminiCompleter(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"mood":`), genai.Text(`"angry"}`)}},
		}},
	}}
	c := NewGeminiCompleter(gen)

	out, err := c.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"mood":"angry"}`, out)
	assert.Equal(t, []genai.Part{genai.Text("prompt")}, gen.got)
	assert.Equal(t, "gemini", c.Name())
	assert.NoError(t, c.Close())
}

func TestGeminiCompleter_Errors(t *testing.T) {
	_, err := NewGeminiCompleter(&fakeGenerator{err: errors.New("quota")}).Complete(context.Background(), "p")
	assert.ErrorContains(t, err, "quota")

	_, err = NewGeminiCompleter(&fakeGenerator{resp: &genai.GenerateContentResponse{}}).Complete(context.Background(), "p")
	assert.ErrorContains(t, err, "no candidates")
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`  {"a":1} `))
	assert.True(t, strings.HasPrefix(DefaultPrompt, "You review"))
}
