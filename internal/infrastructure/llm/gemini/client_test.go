package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
	"github.com/kirillkom/chat-gateway/internal/infrastructure/resilience"
)

type generatorFake struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	calls     int
	gotParts  [][]genai.Part
}

func (f *generatorFake) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	idx := f.calls
	f.calls++
	f.gotParts = append(f.gotParts, parts)
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return nil, errors.New("no scripted response")
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(text)}}},
		},
	}
}

func testExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Policy{
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		Multiplier:     2,
		BreakerEnabled: false,
	})
}

func TestGenerateReturnsCandidateText(t *testing.T) {
	fake := &generatorFake{responses: []*genai.GenerateContentResponse{textResponse("  the answer  ")}}
	client := &Client{model: fake, executor: testExecutor()}

	answer, err := client.Generate(context.Background(), []domain.Segment{
		domain.TextSegment("You are helpful."),
		domain.TextSegment("Hello"),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if answer != "the answer" {
		t.Fatalf("unexpected answer %q", answer)
	}
	if len(fake.gotParts) != 1 || len(fake.gotParts[0]) != 2 {
		t.Fatalf("expected one call with 2 parts, got %+v", fake.gotParts)
	}
}

func TestGenerateMapsBlobSegments(t *testing.T) {
	fake := &generatorFake{responses: []*genai.GenerateContentResponse{textResponse("ok")}}
	client := &Client{model: fake, executor: testExecutor()}

	_, err := client.Generate(context.Background(), []domain.Segment{
		domain.TextSegment("look at this"),
		domain.BlobSegment("image/png", []byte{1, 2, 3}),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	blob, ok := fake.gotParts[0][1].(genai.Blob)
	if !ok {
		t.Fatalf("expected blob part, got %T", fake.gotParts[0][1])
	}
	if blob.MIMEType != "image/png" || len(blob.Data) != 3 {
		t.Fatalf("unexpected blob %+v", blob)
	}
}

func TestGenerateRejectsEmptySegments(t *testing.T) {
	client := &Client{model: &generatorFake{}, executor: testExecutor()}

	if _, err := client.Generate(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty segment list")
	}
}

func TestGenerateRetriesRetryableStatus(t *testing.T) {
	fake := &generatorFake{
		errs:      []error{&googleapi.Error{Code: 503, Message: "overloaded"}},
		responses: []*genai.GenerateContentResponse{nil, textResponse("recovered")},
	}
	client := &Client{model: fake, executor: testExecutor()}

	answer, err := client.Generate(context.Background(), []domain.Segment{domain.TextSegment("hi")})
	if err != nil {
		t.Fatalf("expected recovery after retry, got %v", err)
	}
	if answer != "recovered" {
		t.Fatalf("unexpected answer %q", answer)
	}
	if fake.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", fake.calls)
	}
}

func TestGenerateWrapsUpstreamOutageAsTemporary(t *testing.T) {
	fake := &generatorFake{
		errs: []error{
			&googleapi.Error{Code: 503, Message: "overloaded"},
			&googleapi.Error{Code: 503, Message: "overloaded"},
		},
	}
	client := &Client{model: fake, executor: testExecutor()}

	_, err := client.Generate(context.Background(), []domain.Segment{domain.TextSegment("hi")})
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
}

func TestGenerateDoesNotRetryBadRequest(t *testing.T) {
	fake := &generatorFake{
		errs: []error{&googleapi.Error{Code: 400, Message: "invalid argument"}},
	}
	client := &Client{model: fake, executor: testExecutor()}

	_, err := client.Generate(context.Background(), []domain.Segment{domain.TextSegment("hi")})
	if err == nil {
		t.Fatal("expected error")
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("bad request must not be temporary, got %v", err)
	}
	if fake.calls != 1 {
		t.Fatalf("expected 1 attempt, got %d", fake.calls)
	}
}

func TestGenerateEmptyResponseIsTemporary(t *testing.T) {
	fake := &generatorFake{
		responses: []*genai.GenerateContentResponse{
			{Candidates: []*genai.Candidate{}},
			{Candidates: []*genai.Candidate{}},
		},
	}
	client := &Client{model: fake, executor: testExecutor()}

	_, err := client.Generate(context.Background(), []domain.Segment{domain.TextSegment("hi")})
	if err == nil {
		t.Fatal("expected error for empty response")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
}

func TestDescribeUsesVisionModel(t *testing.T) {
	fake := &generatorFake{responses: []*genai.GenerateContentResponse{textResponse("a cat on a desk")}}
	client := &Client{visionModel: fake, executor: testExecutor()}

	desc, err := client.Describe(context.Background(), "image/jpeg", []byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if desc != "a cat on a desk" {
		t.Fatalf("unexpected description %q", desc)
	}
	if len(fake.gotParts[0]) != 2 {
		t.Fatalf("expected prompt plus blob, got %d parts", len(fake.gotParts[0]))
	}
	if _, ok := fake.gotParts[0][0].(genai.Text); !ok {
		t.Fatalf("first part must be the describe prompt, got %T", fake.gotParts[0][0])
	}
}

func TestDescribeRejectsEmptyPayload(t *testing.T) {
	client := &Client{visionModel: &generatorFake{}, executor: testExecutor()}

	if _, err := client.Describe(context.Background(), "image/png", nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
