package extractor

import "regexp"

var envPatterns = []*regexp.Regexp{
	regexp.MustCompile(`os\.environ\.get\(\s*["']([^"']+)["']`),
	regexp.MustCompile(`os\.environ\[\s*["']([^"']+)["']\s*\]`),
	regexp.MustCompile(`os\.getenv\(\s*["']([^"']+)["']`),
	regexp.MustCompile(`process\.env\.([A-Za-z0-9_]+)`),
	regexp.MustCompile(`process\.env\[\s*["']([^"']+)["']\s*\]`),
	regexp.MustCompile(`System\.getenv\(\s*"([^"]+)"`),
}

// ExtractEnvVars returns the distinct environment variable names read in
// text, sorted.
func ExtractEnvVars(text string) []string {
	var names []string
	for _, re := range envPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			names = append(names, m[1])
		}
	}
	return uniqueSorted(names)
}
