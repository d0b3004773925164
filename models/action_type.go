// SPDX-License-Identifier: GPL-3.0-only

package models

// ActionType is the closed set of metered features. Adding a feature means
// adding a value here plus UsageLimit rows for each tier.
type ActionType string

const (
	ActionTranslation       ActionType = "translation"
	ActionCEFRAnalysis      ActionType = "cefr_analysis"
	ActionVerbAnalysis      ActionType = "verb_analysis"
	ActionVerbConjugation   ActionType = "verb_conjugation"
	ActionLanguageDetection ActionType = "language_detection"
	ActionChatMessage       ActionType = "chat_message"
)

var AllActionTypes = []ActionType{
	ActionTranslation,
	ActionCEFRAnalysis,
	ActionVerbAnalysis,
	ActionVerbConjugation,
	ActionLanguageDetection,
	ActionChatMessage,
}

func (a ActionType) Valid() bool {
	for _, known := range AllActionTypes {
		if a == known {
			return true
		}
	}
	return false
}
