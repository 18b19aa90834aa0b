package service

import (
	"strings"

	"github.com/bobibcgroup/safespace/model"
)

// Keyword lists for the cheap sentiment heuristic. Matching is substring
// based on the lowercased text, mirroring how the triage board expects
// borderline phrasing ("the greatest") to still count.
var positiveWords = []string{"good", "great", "excellent", "love", "happy", "amazing", "wonderful", "fantastic"}

var negativeWords = []string{"bad", "terrible", "hate", "awful", "worst", "horrible", "frustrated", "angry"}

// High-risk keywords force the initial triage status to needs_attention
// regardless of sentiment.
var riskKeywords = []string{"harassment", "discrimination", "bully", "unsafe", "illegal", "violation"}

var unhappyMoods = map[string]bool{"🙁": true, "😞": true}

var happyMoods = map[string]bool{"😀": true, "🙂": true}

// Classification is the synchronous, deterministic part of response intake.
type Classification struct {
	Sentiment string
	Attention string
	Status    string
}

// Classify derives sentiment, attention and the initial triage status from
// the raw text and optional mood emoji.
func Classify(text string, mood *string) Classification {
	lower := strings.ToLower(text)

	positiveCount := 0
	for _, word := range positiveWords {
		if strings.Contains(lower, word) {
			positiveCount++
		}
	}
	negativeCount := 0
	for _, word := range negativeWords {
		if strings.Contains(lower, word) {
			negativeCount++
		}
	}

	sentiment := model.SentimentNeutral
	if positiveCount > negativeCount {
		sentiment = model.SentimentPositive
	} else if negativeCount > positiveCount {
		sentiment = model.SentimentNegative
	}

	attention := model.AttentionModerate
	if sentiment == model.SentimentNegative || (mood != nil && unhappyMoods[*mood]) {
		attention = model.AttentionUrgent
	} else if sentiment == model.SentimentPositive || (mood != nil && happyMoods[*mood]) {
		attention = model.AttentionPositive
	}

	status := model.StatusNew
	for _, keyword := range riskKeywords {
		if strings.Contains(lower, keyword) {
			status = model.StatusNeedsAttention
			break
		}
	}

	return Classification{Sentiment: sentiment, Attention: attention, Status: status}
}

// Action-oriented keywords used by the report aggregates to count responses
// carrying concrete suggestions.
var actionableKeywords = []string{"should", "need", "suggest", "recommend"}

func isActionable(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range actionableKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
