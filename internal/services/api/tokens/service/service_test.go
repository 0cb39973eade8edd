package service

import (
	"context"
	"testing"
	"time"

	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/platform/store"
	"pincast/internal/services/api/tokens/domain"
	"pincast/internal/services/api/tokens/repo"
	identdom "pincast/internal/services/identity/domain"
)

type fakeTx struct{}

func (fakeTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (fakeTx) Query(context.Context, string, ...any) (store.Rows, error)     { return nil, nil }
func (fakeTx) QueryRow(context.Context, string, ...any) store.Row            { return nil }
func (fakeTx) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(fakeTx{})
}

type fakeRepo struct {
	players map[string]repo.RowPlayer
	apps    map[string]repo.RowApp
}

func (f *fakeRepo) PlayerBySubject(_ context.Context, subject string) (repo.RowPlayer, error) {
	p, ok := f.players[subject]
	if !ok {
		return repo.RowPlayer{}, repo.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) AppByID(_ context.Context, appID string) (repo.RowApp, error) {
	a, ok := f.apps[appID]
	if !ok {
		return repo.RowApp{}, repo.ErrNotFound
	}
	return a, nil
}

type fakeIdentity struct {
	subject   string
	verifyErr error

	minted []string // "<userID>:<appID>:<role>:<ttl>"
}

func (f *fakeIdentity) VerifyIDToken(context.Context, string) (identdom.IDClaims, error) {
	if f.verifyErr != nil {
		return identdom.IDClaims{}, f.verifyErr
	}
	return identdom.IDClaims{Subject: f.subject}, nil
}

func (f *fakeIdentity) VerifyAppToken(context.Context, string) (identdom.AppClaims, error) {
	return identdom.AppClaims{}, nil
}

func (f *fakeIdentity) Resolve(context.Context, string) (identdom.User, error) {
	return identdom.User{}, nil
}

func (f *fakeIdentity) MintAppToken(_ context.Context, userID, appID string, role identdom.Role, ttl time.Duration) (string, error) {
	f.minted = append(f.minted, userID+":"+appID+":"+string(role)+":"+ttl.String())
	return "signed-app-token", nil
}

func newSvc(fr *fakeRepo, id *fakeIdentity) *Svc {
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return fr })
	return New(fakeTx{}, binder, id, id, Options{})
}

func seed() *fakeRepo {
	return &fakeRepo{
		players: map[string]repo.RowPlayer{"logto-1": {ID: "user-1", Role: "player"}},
		apps: map[string]repo.RowApp{
			"app-1": {ID: "app-1", OwnerID: "dev-1", State: "published"},
			"app-2": {ID: "app-2", OwnerID: "user-1", State: "pending"},
			"app-3": {ID: "app-3", OwnerID: "dev-1", State: "pending"},
		},
	}
}

func TestIssue(t *testing.T) {
	t.Parallel()

	id := &fakeIdentity{subject: "logto-1"}
	s := newSvc(seed(), id)

	out, err := s.Issue(context.Background(), domain.IssueInput{IDToken: "id-token", AppID: "app-1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if out.Token != "signed-app-token" || out.ExpiresIn != 3600 {
		t.Fatalf("out = %+v", out)
	}
	if len(id.minted) != 1 || id.minted[0] != "user-1:app-1:player:1h0m0s" {
		t.Fatalf("minted = %v", id.minted)
	}
}

func TestIssueUnknownPlayer(t *testing.T) {
	t.Parallel()

	id := &fakeIdentity{subject: "logto-ghost"}
	s := newSvc(seed(), id)

	_, err := s.Issue(context.Background(), domain.IssueInput{IDToken: "id-token", AppID: "app-1"})
	if !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err.Error() != "Player account not found" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestIssueUnknownApp(t *testing.T) {
	t.Parallel()

	id := &fakeIdentity{subject: "logto-1"}
	s := newSvc(seed(), id)

	_, err := s.Issue(context.Background(), domain.IssueInput{IDToken: "id-token", AppID: "app-9"})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "App not found" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestIssueUnpublishedApp(t *testing.T) {
	t.Parallel()

	id := &fakeIdentity{subject: "logto-1"}
	s := newSvc(seed(), id)

	_, err := s.Issue(context.Background(), domain.IssueInput{IDToken: "id-token", AppID: "app-3"})
	if !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err.Error() != "App is not published" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestIssueOwnerPlaysUnpublishedBuild(t *testing.T) {
	t.Parallel()

	id := &fakeIdentity{subject: "logto-1"}
	s := newSvc(seed(), id)

	// app-2 is pending but owned by the requesting player
	out, err := s.Issue(context.Background(), domain.IssueInput{IDToken: "id-token", AppID: "app-2"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if out.Token == "" {
		t.Fatal("expected a token")
	}
}

func TestIssueBadIDToken(t *testing.T) {
	t.Parallel()

	id := &fakeIdentity{verifyErr: perr.Unauthorizedf("Invalid token")}
	s := newSvc(seed(), id)

	_, err := s.Issue(context.Background(), domain.IssueInput{IDToken: "garbage", AppID: "app-1"})
	if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(id.minted) != 0 {
		t.Fatalf("minted = %v, want none", id.minted)
	}
}
