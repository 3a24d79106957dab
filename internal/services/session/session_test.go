package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/mathtutor-backend/internal/pkg/ctxutil"
	apperr "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

func TestIssueAndParse(t *testing.T) {
	svc, err := NewService(logger.NewNop(), "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	issued, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := svc.Parse(issued.Token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != issued.SessionID {
		t.Fatalf("unexpected session id: got=%s want=%s", got, issued.SessionID)
	}

	ctx, err := svc.SetContextFromToken(context.Background(), issued.Token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.SessionID != issued.SessionID {
		t.Fatalf("request data not attached: %+v", rd)
	}
}

func TestParseRejects(t *testing.T) {
	svc, _ := NewService(logger.NewNop(), "secret", time.Hour)
	other, _ := NewService(logger.NewNop(), "other", time.Hour)
	foreign, _ := other.Issue(context.Background())

	expiredSvc := svc.(*service)
	issued, _ := svc.Issue(context.Background())
	expiredSvc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	defer func() { expiredSvc.now = time.Now }()

	for name, token := range map[string]string{
		"empty":   "",
		"garbage": "not.a.jwt",
		"foreign": foreign.Token,
		"expired": issued.Token,
	} {
		if _, err := svc.Parse(token); !errors.Is(err, apperr.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got=%v", name, err)
		}
	}
}

func TestNewServiceRequiresSecret(t *testing.T) {
	if _, err := NewService(logger.NewNop(), " ", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
