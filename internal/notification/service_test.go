package notification

import (
	"context"
	"strings"
	"testing"
)

type fakeRepo struct {
	inApp  []InAppNotification
	tokens map[uint][]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tokens: map[uint][]string{}}
}

func (f *fakeRepo) CreateInApp(ctx context.Context, n *InAppNotification) error {
	n.ID = uint(len(f.inApp) + 1)
	f.inApp = append(f.inApp, *n)
	return nil
}

func (f *fakeRepo) ListInAppByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error) {
	var out []InAppNotification
	for _, n := range f.inApp {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkInAppAsRead(ctx context.Context, id uint, userID uint) error {
	for i := range f.inApp {
		if f.inApp[i].ID == id && f.inApp[i].UserID == userID {
			f.inApp[i].IsRead = true
			return nil
		}
	}
	return nil
}

func (f *fakeRepo) MarkAllAsRead(ctx context.Context, userID uint) error {
	for i := range f.inApp {
		if f.inApp[i].UserID == userID {
			f.inApp[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeRepo) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	for _, n := range f.inApp {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) SaveDeviceToken(ctx context.Context, token *FCMDeviceToken) error {
	f.tokens[token.UserID] = append(f.tokens[token.UserID], token.DeviceToken)
	return nil
}

func (f *fakeRepo) RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error {
	var kept []string
	for _, t := range f.tokens[userID] {
		if t != deviceToken {
			kept = append(kept, t)
		}
	}
	f.tokens[userID] = kept
	return nil
}

func (f *fakeRepo) GetUserDeviceTokens(ctx context.Context, userID uint) ([]string, error) {
	return f.tokens[userID], nil
}

type fakeChannel struct {
	sent [][]string
}

func (f *fakeChannel) Send(recipients []string, title, body string) error {
	f.sent = append(f.sent, recipients)
	return nil
}

func TestNotifyUserStoresAndPushes(t *testing.T) {
	repo := newFakeRepo()
	repo.tokens[7] = []string{"device-a", "device-b"}
	ch := &fakeChannel{}
	svc := &service{repo: repo, fcm: ch}

	eventID := uint(3)
	if err := svc.NotifyUser(context.Background(), 7, &eventID, "New registration 🎉", "Aruzhan registered for Yoga", CategoryRegistration); err != nil {
		t.Fatalf("NotifyUser: %v", err)
	}

	if len(repo.inApp) != 1 {
		t.Fatalf("expected one stored notification, got %d", len(repo.inApp))
	}
	if repo.inApp[0].Category != CategoryRegistration {
		t.Fatalf("category = %q", repo.inApp[0].Category)
	}
	if len(ch.sent) != 1 || len(ch.sent[0]) != 2 {
		t.Fatalf("expected one push to both devices, got %v", ch.sent)
	}
}

func TestNotifyUserWithoutDevices(t *testing.T) {
	repo := newFakeRepo()
	ch := &fakeChannel{}
	svc := &service{repo: repo, fcm: ch}

	if err := svc.NotifyUser(context.Background(), 7, nil, "t", "m", CategorySystem); err != nil {
		t.Fatalf("NotifyUser without devices must not error: %v", err)
	}
	if len(ch.sent) != 0 {
		t.Fatalf("no push expected without device tokens")
	}
}

func TestUnreadCount(t *testing.T) {
	repo := newFakeRepo()
	svc := &service{repo: repo, fcm: &fakeChannel{}}

	ctx := context.Background()
	_ = svc.NotifyUser(ctx, 1, nil, "a", "a", CategorySystem)
	_ = svc.NotifyUser(ctx, 1, nil, "b", "b", CategorySystem)
	_ = svc.NotifyUser(ctx, 2, nil, "c", "c", CategorySystem)

	count, err := svc.UnreadCount(ctx, 1)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("unread = %d, want 2", count)
	}

	if err := svc.MarkAllAsRead(ctx, 1); err != nil {
		t.Fatalf("MarkAllAsRead: %v", err)
	}
	count, _ = svc.UnreadCount(ctx, 1)
	if count != 0 {
		t.Fatalf("unread after mark-all = %d, want 0", count)
	}
}

func TestRenderActivity(t *testing.T) {
	tests := []struct {
		name     string
		msg      ActivityMessage
		title    string
		contains string
		category string
	}{
		{
			name:     "registration with date",
			msg:      ActivityMessage{Type: ActivityRegistration, EventName: "Yoga in the Park", ActorName: "Dana", Date: "2025-06-01"},
			title:    "New registration 🎉",
			contains: "on 2025-06-01",
			category: CategoryRegistration,
		},
		{
			name:     "like",
			msg:      ActivityMessage{Type: ActivityLike, EventName: "Yoga in the Park", ActorName: "Dana"},
			title:    "Your event got a like ❤️",
			contains: "Dana liked Yoga in the Park",
			category: CategoryLike,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body, category := renderActivity(tt.msg)
			if title != tt.title {
				t.Fatalf("title = %q, want %q", title, tt.title)
			}
			if !strings.Contains(body, tt.contains) {
				t.Fatalf("body %q must contain %q", body, tt.contains)
			}
			if category != tt.category {
				t.Fatalf("category = %q, want %q", category, tt.category)
			}
		})
	}

	if title, _, _ := renderActivity(ActivityMessage{Type: "unknown"}); title != "" {
		t.Fatalf("unknown activity must render empty, got %q", title)
	}
}
