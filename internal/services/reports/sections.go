package reports

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"whohub/internal/domain"
)

const (
	basePagesSimple  = 4
	basePagesFull    = 8
	findingsPerPage  = 10
	summaryMaxTokens = 600
)

func imageSummary(analyses []domain.ImageAnalysis) string {
	if len(analyses) == 0 {
		return "No images analyzed."
	}
	aiGenerated := 0
	totalMatches := 0
	for _, a := range analyses {
		if a.AIGenerated {
			aiGenerated++
		}
		totalMatches += a.ReverseMatches
	}
	return fmt.Sprintf("%d image(s) analyzed. %d potentially AI-generated image(s) detected. %d reverse search matches found across all platforms.",
		len(analyses), aiGenerated, totalMatches)
}

func socialSummary(profiles []domain.SocialProfile) string {
	if len(profiles) == 0 {
		return "No social media profiles found."
	}
	platforms := uniqueStrings(profiles, func(p domain.SocialProfile) string { return p.Platform })
	suspicious := 0
	for _, p := range profiles {
		if p.Suspicious {
			suspicious++
		}
	}
	return fmt.Sprintf("%d social media profile(s) found across %d platform(s): %s. %d showing suspicious activity.",
		len(profiles), len(platforms), strings.Join(platforms, ", "), suspicious)
}

func redFlagsSummary(findings []domain.Finding) string {
	var flagged []domain.Finding
	for _, f := range findings {
		if f.RedFlag {
			flagged = append(flagged, f)
		}
	}
	if len(flagged) == 0 {
		return "No significant red flags detected."
	}
	kinds := uniqueStrings(flagged, func(f domain.Finding) string { return string(f.Kind) })
	return fmt.Sprintf("%d red flag(s) identified including: %s. Recommend caution and further verification.",
		len(flagged), strings.Join(kinds, ", "))
}

func breachSummary(breaches []domain.BreachRecord) string {
	if len(breaches) == 0 {
		return "No data breaches found."
	}
	severe := 0
	for _, b := range breaches {
		if b.Severity.RedFlag() {
			severe++
		}
	}
	return fmt.Sprintf("%d data breach(es) found. %d classified as high/critical severity. Account security may be compromised.",
		len(breaches), severe)
}

func convictionSummary(convictions []domain.ConvictionRecord) string {
	if len(convictions) == 0 {
		return "No criminal convictions found in public records."
	}
	types := uniqueStrings(convictions, func(c domain.ConvictionRecord) string {
		if c.Type == nil {
			return "unspecified"
		}
		return *c.Type
	})
	return fmt.Sprintf("%d potential criminal record(s) found for similar names. Types include: %s. Manual verification recommended.",
		len(convictions), strings.Join(types, ", "))
}

// fallbackExecutiveSummary is used when the text generator is unavailable or
// errors; report generation never fails on narrative generation alone.
func fallbackExecutiveSummary(typ domain.InvestigationType, findings, redFlags int) string {
	return fmt.Sprintf("OSINT Investigation completed for %s report. %d findings analyzed with %d potential concerns identified.",
		typ, findings, redFlags)
}

func summaryPrompt(detail domain.InvestigationDetail, redFlags int) string {
	target := "Anonymous"
	if detail.Investigation.TargetName != nil {
		target = *detail.Investigation.TargetName
	}
	return fmt.Sprintf(`Generate a professional OSINT investigation summary for the following data:

Investigation Type: %s
Target: %s
Red Flags Found: %d
Total Findings: %d

Create a concise executive summary that:
1. States the investigation purpose and scope
2. Highlights key findings and concerns
3. Provides risk assessment
4. Maintains professional, objective tone
5. Protects privacy by not revealing sensitive personal information

Keep the summary under 500 words.`,
		detail.Investigation.Type, target, redFlags, len(detail.Findings))
}

func totalPages(typ domain.InvestigationType, findingsCount int) int {
	base := basePagesSimple
	if typ == domain.TypeFull {
		base = basePagesFull
	}
	return base + int(math.Ceil(float64(findingsCount)/findingsPerPage))
}

func uniqueStrings[T any](items []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
