// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package assistant

import "strings"

// Canned assistant replies used when the inference bridge is unreachable and
// the offline fallback is enabled. Matching is keyword-based on the user's
// last input, checked in order: books, videos, articles, then a generic reply.
const (
	fallbackBooks    = "Based on your interests, I recommend 'Artificial Intelligence: A Modern Approach' by Stuart Russell and Peter Norvig. It's a comprehensive guide to AI that covers everything from basic principles to advanced techniques. Would you like more book recommendations in a specific area of AI or technology?"
	fallbackVideos   = "I found a great video series called 'Introduction to Machine Learning' that matches your interests in AI and technology. It provides a beginner-friendly overview of key concepts and applications. Would you like me to suggest more videos on specific topics?"
	fallbackArticles = "I've found an interesting article titled 'The Future of AI in Content Recommendation' that discusses how AI is revolutionizing content discovery. It aligns with your interest in technology and artificial intelligence. Would you like me to find more articles on this topic?"
	fallbackGeneric  = "Based on your profile and past interactions, I think you might enjoy content about artificial intelligence and machine learning. Would you like recommendations for articles, books, or videos on these topics? Or is there another subject you're interested in exploring?"
)

// fallbackReply synthesizes an offline assistant reply for the given user
// input.
func fallbackReply(input string) string {
	in := strings.ToLower(input)

	switch {
	case strings.Contains(in, "book") || strings.Contains(in, "read"):
		return fallbackBooks
	case strings.Contains(in, "video") || strings.Contains(in, "watch"):
		return fallbackVideos
	case strings.Contains(in, "article") || strings.Contains(in, "blog"):
		return fallbackArticles
	default:
		return fallbackGeneric
	}
}
