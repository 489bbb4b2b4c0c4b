package dashboard

import (
	"context"
	"fmt"
)

func defaultProviders() map[string]Provider {
	feed := DemoClassFeed()
	return map[string]Provider{
		WidgetAnnouncements: NewFeedProvider(feed, FeedAnnouncements, 3),
		WidgetQuickLinks:    quickLinksProvider(),
		WidgetActivityBoard: NewFeedProvider(feed, FeedBoardPosts, 5),
		WidgetOpenQuestions: NewFeedProvider(feed, FeedQuestions, 10),
		WidgetClassChat:     NewFeedProvider(feed, FeedChat, 10),
		WidgetParticipation: NewParticipationChartProvider(DemoParticipationRepository{}, nil),
	}
}

// NewFeedProvider renders the latest entries of one classroom stream.
// The widget's "limit" setting overrides fallbackLimit; the open questions
// widget also honours "include_answered".
func NewFeedProvider(feed ClassFeed, kind FeedKind, fallbackLimit int) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		if feed == nil {
			return nil, fmt.Errorf("feed provider %s: feed is required", kind)
		}
		limit := fallbackLimit
		if raw, ok := meta.Setting("limit"); ok {
			if v, ok := coerceOrder(raw); ok && v > 0 {
				limit = v
			}
		}
		items, err := feed.Recent(ctx, meta.ClassroomID, kind, limit)
		if err != nil {
			return nil, fmt.Errorf("feed provider %s: %w", kind, err)
		}
		if kind == FeedQuestions {
			includeAnswered, _ := meta.Setting("include_answered")
			if !boolValue(includeAnswered) {
				items = unansweredOnly(items)
			}
		}
		emptyKey := fmt.Sprintf("dashboard.widget.%s.empty", meta.Widget.WidgetID)
		return WidgetData{
			"kind":  string(kind),
			"items": items,
			"empty": translateOrFallback(ctx, meta.Translator, emptyKey, meta.Viewer.Locale, "Nothing here yet", nil),
		}, nil
	})
}

func unansweredOnly(items []FeedItem) []FeedItem {
	out := items[:0:0]
	for _, item := range items {
		if !item.Answered {
			out = append(out, item)
		}
	}
	return out
}

func quickLinksProvider() Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		if raw, ok := meta.Setting("links"); ok {
			if links, ok := raw.([]any); ok && len(links) > 0 {
				return WidgetData{"links": links}, nil
			}
		}
		base := "/classrooms/" + meta.ClassroomID
		label := func(key, fallback string) string {
			return translateOrFallback(ctx, meta.Translator, "dashboard.widget.quick_links."+key, meta.Viewer.Locale, fallback, nil)
		}
		return WidgetData{
			"links": []map[string]any{
				{"label": label("board", "Activity board"), "route": base + "/activity", "icon": "sticky-note"},
				{"label": label("ask", "Ask session"), "route": base + "/ask", "icon": "help-circle"},
				{"label": label("chat", "Class chat"), "route": base + "/chat", "icon": "message-circle"},
			},
		}, nil
	})
}
