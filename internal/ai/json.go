package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Модели часто заворачивают JSON в код-блоки или сопровождают его текстом,
// поэтому перед разбором вырезаем сам объект.
var (
	codeFenceRegex  = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?```")
	jsonObjectRegex = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
)

// decodeJSON разбирает JSON-объект из ответа модели, терпимо к код-блокам
// и окружающему тексту
func decodeJSON(text string, v interface{}) error {
	candidate := strings.TrimSpace(text)

	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}

	if m := codeFenceRegex.FindStringSubmatch(candidate); m != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), v); err == nil {
			return nil
		}
	}

	if m := jsonObjectRegex.FindString(candidate); m != "" {
		if err := json.Unmarshal([]byte(m), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("ai: no parsable JSON object in model output")
}
