package dashboard

import (
	"context"
	"time"
)

// FeedKind selects which classroom stream a feed entry belongs to.
type FeedKind string

const (
	FeedAnnouncements FeedKind = "announcements"
	FeedBoardPosts    FeedKind = "posts"
	FeedQuestions     FeedKind = "questions"
	FeedChat          FeedKind = "chat"
)

// FeedItem is a single note, question or message shown by a feed widget.
type FeedItem struct {
	Author   string    `json:"author"`
	Body     string    `json:"body"`
	Answered bool      `json:"answered,omitempty"`
	PostedAt time.Time `json:"posted_at"`
}

// ClassFeed fetches recent classroom content for feed widgets.
type ClassFeed interface {
	Recent(ctx context.Context, classroomID string, kind FeedKind, limit int) ([]FeedItem, error)
}

// StaticClassFeed serves fixed entries, used for demo classrooms and tests.
type StaticClassFeed struct {
	Items map[FeedKind][]FeedItem
}

// Recent returns up to limit items of the requested kind.
func (f StaticClassFeed) Recent(_ context.Context, _ string, kind FeedKind, limit int) ([]FeedItem, error) {
	items := f.Items[kind]
	if limit <= 0 || limit >= len(items) {
		return append([]FeedItem{}, items...), nil
	}
	return append([]FeedItem{}, items[:limit]...), nil
}

// DemoClassFeed provides placeholder classroom content for the built-in widgets.
func DemoClassFeed() ClassFeed {
	now := time.Now().UTC()
	return StaticClassFeed{
		Items: map[FeedKind][]FeedItem{
			FeedAnnouncements: {
				{Author: "Ms. Rivera", Body: "Lab reports are due Friday.", PostedAt: now.Add(-2 * time.Hour)},
				{Author: "Ms. Rivera", Body: "Field trip forms are on the shared drive.", PostedAt: now.Add(-26 * time.Hour)},
			},
			FeedBoardPosts: {
				{Author: "Jamie", Body: "Our group mapped the water cycle.", PostedAt: now.Add(-10 * time.Minute)},
				{Author: "Priya", Body: "Photo of the seedlings after one week.", PostedAt: now.Add(-45 * time.Minute)},
				{Author: "Leo", Body: "Question wall summary from Tuesday.", PostedAt: now.Add(-3 * time.Hour)},
			},
			FeedQuestions: {
				{Author: "Sam", Body: "Does evaporation need sunlight?", PostedAt: now.Add(-5 * time.Minute)},
				{Author: "Ava", Body: "Can we use markers on the poster?", Answered: true, PostedAt: now.Add(-30 * time.Minute)},
			},
			FeedChat: {
				{Author: "Noah", Body: "Who has the rubric?", PostedAt: now.Add(-2 * time.Minute)},
				{Author: "Mia", Body: "It is pinned in announcements.", PostedAt: now.Add(-1 * time.Minute)},
			},
		},
	}
}
