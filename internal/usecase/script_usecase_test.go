package usecase

import (
	"context"
	"testing"

	"github.com/fadilmartias/interview-engine/internal/config"
	"github.com/fadilmartias/interview-engine/internal/interview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var candidate = interview.CandidateInfo{
	Name:           "Ravi",
	Role:           "Backend Engineer",
	Experience:     "3 years",
	InterviewTypes: []string{"technical"},
	Skills:         []string{"Go"},
}

func TestCreateScriptWithGivenQuestions(t *testing.T) {
	repo := newFakeScriptRepo()
	llm := &fakeLLM{}
	emb := &fakeEmbedder{}
	uc := NewScriptUsecase(repo, llm, emb, config.DefaultInterviewConfig())

	script, err := uc.Create(context.Background(), candidate, []interview.Question{
		{Question: " Why Go? "}, {Question: ""},
	}, 0)
	require.NoError(t, err)

	qs, err := script.QuestionList()
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Why Go?", qs[0].Question)
	assert.Zero(t, llm.calls)
	require.NotNil(t, script.Embedding)
	assert.Contains(t, repo.embeddings, script.ID)
	assert.Contains(t, emb.texts[0], "Backend Engineer")
}

func TestCreateScriptGeneratesQuestions(t *testing.T) {
	repo := newFakeScriptRepo()
	llm := &fakeLLM{reply: "```json\n" + `{"questions":[
		{"question":"Tell me about yourself.","type":"hr"},
		{"question":"Explain goroutines.","type":"technical"},
		{"question":"Design a rate limiter.","type":"technical"}
	]}` + "\n```"}
	cfg := config.DefaultInterviewConfig()
	cfg.MaxQuestionCount = 2
	uc := NewScriptUsecase(repo, llm, nil, cfg)

	script, err := uc.Create(context.Background(), candidate, nil, 10)
	require.NoError(t, err)

	qs, err := script.QuestionList()
	require.NoError(t, err)
	assert.Len(t, qs, 2)
	assert.Equal(t, "Explain goroutines.", qs[1].Question)
	assert.Nil(t, script.Embedding)
}

func TestCreateScriptGenerationFailure(t *testing.T) {
	uc := NewScriptUsecase(newFakeScriptRepo(), &fakeLLM{reply: "sorry, no"}, nil, config.DefaultInterviewConfig())
	_, err := uc.Create(context.Background(), candidate, nil, 0)
	assert.Error(t, err)

	uc = NewScriptUsecase(newFakeScriptRepo(), &fakeLLM{err: errBoom}, nil, config.DefaultInterviewConfig())
	_, err = uc.Create(context.Background(), candidate, nil, 0)
	assert.ErrorIs(t, err, errBoom)
}

func TestCreateScriptSurvivesEmbeddingFailure(t *testing.T) {
	repo := newFakeScriptRepo()
	uc := NewScriptUsecase(repo, &fakeLLM{}, &fakeEmbedder{err: errBoom}, config.DefaultInterviewConfig())

	script, err := uc.Create(context.Background(), candidate, []interview.Question{{Question: "Why Go?"}}, 0)
	require.NoError(t, err)
	assert.Nil(t, script.Embedding)
	assert.Empty(t, repo.embeddings)
}

func TestGetScript(t *testing.T) {
	repo := newFakeScriptRepo()
	uc := NewScriptUsecase(repo, &fakeLLM{}, nil, config.DefaultInterviewConfig())
	created, err := uc.Create(context.Background(), candidate, []interview.Question{{Question: "Why Go?"}}, 0)
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = uc.Get(context.Background(), "bogus")
	assert.ErrorIs(t, err, interview.ErrScriptNotFound)
	_, err = uc.Get(context.Background(), "6f1c5a3e-8d0b-4a53-9d58-0e8f7f0b2c11")
	assert.ErrorIs(t, err, interview.ErrScriptNotFound)
}

func TestListScriptsPaginates(t *testing.T) {
	repo := newFakeScriptRepo()
	uc := NewScriptUsecase(repo, &fakeLLM{}, nil, config.DefaultInterviewConfig())
	for i := 0; i < 5; i++ {
		_, err := uc.Create(context.Background(), candidate, []interview.Question{{Question: "Why Go?"}}, 0)
		require.NoError(t, err)
	}

	scripts, page, err := uc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, scripts, 2)
	assert.Equal(t, 2, page.Page)
	assert.EqualValues(t, 3, page.TotalPages)
	assert.EqualValues(t, 5, page.TotalItems)
	assert.True(t, page.HasMore)
	assert.Equal(t, 3, page.From)
	assert.Equal(t, 4, page.To)

	_, page, err = uc.List(context.Background(), 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, maxPageSize, page.PageSize)
	assert.False(t, page.HasMore)
}

func TestRecommendScripts(t *testing.T) {
	repo := newFakeScriptRepo()
	emb := &fakeEmbedder{}
	uc := NewScriptUsecase(repo, &fakeLLM{}, emb, config.DefaultInterviewConfig())
	_, err := uc.Create(context.Background(), candidate, []interview.Question{{Question: "Why Go?"}}, 0)
	require.NoError(t, err)

	scripts, err := uc.Recommend(context.Background(), "go backend", 100)
	require.NoError(t, err)
	assert.Len(t, scripts, 1)
	assert.Len(t, repo.searched, 1)
	assert.Equal(t, "go backend", emb.texts[len(emb.texts)-1])

	_, err = uc.Recommend(context.Background(), "  ", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	noEmb := NewScriptUsecase(repo, &fakeLLM{}, nil, config.DefaultInterviewConfig())
	_, err = noEmb.Recommend(context.Background(), "go", 5)
	assert.Error(t, err)
}
