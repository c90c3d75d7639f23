package news

import (
	"time"

	"github.com/deusflow/newspulse/internal/feed"
)

const fallbackLogoURL = "https://i.postimg.cc/9FT5FFtX/logo.png"

type placeholder struct {
	id, title, description, content string
}

// Static placeholder sets per category, the last tier of the fallback chain.
// Served when cache, every source URL and every relay came up empty, so the
// reader still sees content instead of an error state.
var staticFallbacks = map[string][]placeholder{
	"azad-studio": {
		{
			id:          "azad-1",
			title:       "Azad Studio Announces New AI Initiative",
			description: "A deep dive into the latest project from Azad Studio, focusing on generative AI and community engagement.",
			content:     "Azad Studio has officially launched its new AI initiative aimed at revolutionizing content creation. The project leverages cutting-edge AI models to deliver personalized news and media, designed to be secure, cost-effective and low-maintenance.",
		},
		{
			id:          "azad-2",
			title:       "Community Drive: Voice for the Voiceless",
			description: "Azad Studio continues its mission to highlight grassroots issues with a new documentary series.",
			content:     "In our latest effort to bring attention to underrepresented communities, Azad Studio is releasing a series of short documentaries focused on the daily struggles and triumphs of individuals often overlooked by mainstream media.",
		},
	},
	"hyderabad": {{
		id:          "hyd-fb-1",
		title:       "Hyderabad: The City of Pearls",
		description: "Explore the rich history and modern developments of Hyderabad. This section will update with live news shortly.",
		content:     "Hyderabad is known for its rich history, food, and multi-lingual culture. We are currently establishing a connection to the live news feed. Please check back in a few moments for real-time updates on traffic, weather, and local events.",
	}},
	"telangana": {{
		id:          "ts-fb-1",
		title:       "Telangana State Updates",
		description: "Latest happenings from across the state of Telangana. Live feed connecting...",
		content:     "Stay tuned for the latest political, social, and economic news from Telangana. Our AI agents are currently scouring multiple sources to bring you the most accurate reporting.",
	}},
	"india": {{
		id:          "ind-fb-1",
		title:       "National News Headlines",
		description: "Top stories from across India. Connecting to live broadcast...",
		content:     "From Delhi to Kanyakumari, we bring you the stories that matter. We are currently refreshing the feed to ensure you get the latest breaking news.",
	}},
	"international": {{
		id:          "int-fb-1",
		title:       "Global Affairs & World News",
		description: "Major events happening around the globe. Live feed refreshing...",
		content:     "Keep up with international relations, global markets, and major world events. Our system is syncing with global news wires.",
	}},
	"sports": {{
		id:          "spt-fb-1",
		title:       "Sports Action & Scores",
		description: "Cricket, Football, and more. Loading live scores...",
		content:     "Get the latest match updates, player stats, and tournament news. We are currently fetching the latest scoreboard data.",
	}},
	"breaking": {{
		id:          "fb-1",
		title:       "News Service Refreshing",
		description: "We are updating the news feed. Please check back in a moment.",
		content:     "The news service is currently updating. This could be due to network conditions. Please browse our featured content while we reconnect.",
	}},
}

// StaticFallback returns the placeholder articles for a category, stamped
// with the current time so they sort sensibly. Unknown categories have no
// placeholders.
func StaticFallback(category string) []feed.Article {
	entries := staticFallbacks[category]
	now := time.Now()

	articles := make([]feed.Article, 0, len(entries))
	for i, p := range entries {
		articles = append(articles, feed.Article{
			ID:          p.id,
			Title:       p.title,
			Description: p.description,
			Content:     p.content,
			Link:        "#",
			Source:      "News Pulse AI",
			PubDate:     now.Add(-time.Duration(i) * time.Minute),
			Category:    category,
			ImageURL:    fallbackLogoURL,
		})
	}
	return articles
}
