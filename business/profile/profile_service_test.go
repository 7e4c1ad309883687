package profile

import (
	"context"
	"errors"
	"testing"

	"inkwell/domain"
)

type fakeActionRepo struct {
	actions    []domain.UserAction
	queryErr   error
	deletedFor []string
}

func (f *fakeActionRepo) QueryRecent(_ context.Context, userID string, limit int) ([]domain.UserAction, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	out := make([]domain.UserAction, 0, limit)
	for _, a := range f.actions {
		if a.UserID == userID && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActionRepo) DeleteByUser(_ context.Context, userID string) error {
	f.deletedFor = append(f.deletedFor, userID)
	return nil
}

type fakeContentRepo struct {
	content map[string]domain.ContentFeatures
}

func (f *fakeContentRepo) GetMany(_ context.Context, ids []string) (map[string]domain.ContentFeatures, error) {
	out := make(map[string]domain.ContentFeatures, len(ids))
	for _, id := range ids {
		if c, ok := f.content[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

type fakeProfileStore struct {
	profiles map[string]*domain.UserProfile
	putErr   error
	deleted  []string
}

func (f *fakeProfileStore) Get(_ context.Context, userID string) (*domain.UserProfile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProfileStore) Put(_ context.Context, p *domain.UserProfile) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.profiles == nil {
		f.profiles = map[string]*domain.UserProfile{}
	}
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeProfileStore) Delete(_ context.Context, userID string) error {
	f.deleted = append(f.deleted, userID)
	delete(f.profiles, userID)
	return nil
}

func userAction(userID, actionType, targetID string) domain.UserAction {
	return domain.UserAction{
		UserID:     userID,
		ActionType: actionType,
		TargetID:   targetID,
		CreatedAt:  testNow,
	}
}

func TestRefreshBuildsAndPersists(t *testing.T) {
	actions := &fakeActionRepo{actions: []domain.UserAction{
		userAction("u1", domain.ActionLike, "p1"),
		userAction("u1", domain.ActionView, "p2"),
	}}
	content := &fakeContentRepo{content: contentFixture()}
	store := &fakeProfileStore{}

	svc := NewProfileService(actions, content, store, testWeights(), 0)

	p, err := svc.Refresh(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if p == nil {
		t.Fatal("expected a built profile")
	}
	if len(p.Interests) == 0 {
		t.Error("profile has no interests")
	}

	stored, err := store.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("stored profile: %v", err)
	}
	if stored.UserID != "u1" {
		t.Errorf("stored user id = %q", stored.UserID)
	}
}

func TestRefreshNoActionsReturnsNilNil(t *testing.T) {
	svc := NewProfileService(&fakeActionRepo{}, &fakeContentRepo{}, &fakeProfileStore{}, testWeights(), 0)

	p, err := svc.Refresh(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil profile for a user without actions, got %+v", p)
	}
}

func TestRefreshNoActionsKeepsStoredProfile(t *testing.T) {
	store := &fakeProfileStore{profiles: map[string]*domain.UserProfile{
		"u1": {UserID: "u1", Interests: map[string]float64{"tech": 1}},
	}}
	svc := NewProfileService(&fakeActionRepo{}, &fakeContentRepo{}, store, testWeights(), 0)

	if _, err := svc.Refresh(context.Background(), "u1"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if _, err := store.Get(context.Background(), "u1"); err != nil {
		t.Errorf("previously stored profile should survive an empty rebuild: %v", err)
	}
}

func TestRefreshRequiresUser(t *testing.T) {
	svc := NewProfileService(&fakeActionRepo{}, &fakeContentRepo{}, &fakeProfileStore{}, testWeights(), 0)

	_, err := svc.Refresh(context.Background(), "")
	if !errors.Is(err, domain.ErrAuthRequired) {
		t.Errorf("err = %v, want ErrAuthRequired", err)
	}
}

func TestRefreshQueryErrorSurfaces(t *testing.T) {
	actions := &fakeActionRepo{queryErr: errors.New("timeout")}
	svc := NewProfileService(actions, &fakeContentRepo{}, &fakeProfileStore{}, testWeights(), 0)

	if _, err := svc.Refresh(context.Background(), "u1"); err == nil {
		t.Error("expected the repository error to surface")
	}
}

func TestDeleteCascade(t *testing.T) {
	actions := &fakeActionRepo{}
	store := &fakeProfileStore{profiles: map[string]*domain.UserProfile{
		"u1": {UserID: "u1"},
	}}
	svc := NewProfileService(actions, &fakeContentRepo{}, store, testWeights(), 0)

	if err := svc.Delete(context.Background(), "u1", false); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(actions.deletedFor) != 0 {
		t.Error("non-cascade delete must not touch action history")
	}

	if err := svc.Delete(context.Background(), "u1", true); err != nil {
		t.Fatalf("Delete cascade: %v", err)
	}
	if len(actions.deletedFor) != 1 || actions.deletedFor[0] != "u1" {
		t.Errorf("cascade delete should remove action history, got %v", actions.deletedFor)
	}
}
