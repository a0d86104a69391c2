package coach

import (
	"fmt"
	"strings"
	"time"

	"github.com/pacelog/pacelog/internal/races"
	"github.com/pacelog/pacelog/internal/training"
)

func buildAskPrompt(userName string, now time.Time, query string, stats *training.PeriodStats) string {
	var sb strings.Builder
	sb.WriteString("You are an expert marathon training coach AI assistant. ")
	sb.WriteString("Provide helpful, motivating, and scientifically-backed advice for marathon training.\n\n")

	fmt.Fprintf(&sb, "User: %s\n", userName)
	fmt.Fprintf(&sb, "Current Date: %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&sb, "User Query: %s\n\n", query)

	sb.WriteString("User's Training Data:\n")
	fmt.Fprintf(&sb, "- Total Distance Run: %.1f km\n", stats.TotalStats.TotalDistance)
	fmt.Fprintf(&sb, "- Total Training Time: %.0f minutes\n", stats.TotalStats.TotalDuration)
	fmt.Fprintf(&sb, "- Average Pace: %.2f min/km\n", stats.TotalStats.AveragePace)
	fmt.Fprintf(&sb, "- Recent Workouts: %d workouts\n\n", stats.TotalStats.TotalActivities)

	sb.WriteString(`Instructions:
1. Provide specific, actionable advice based on the user's training data
2. Be encouraging and motivating
3. Include relevant training tips, nutrition advice, or injury prevention tips
4. Keep responses concise but informative (2-3 sentences)
5. If the user asks about something not related to training, politely redirect to training topics

Respond in a friendly, professional tone as a personal training coach.
`)

	return sb.String()
}

func buildRecommendationsPrompt(prefs Preferences, stats *training.PeriodStats, catalog []races.Race) string {
	var sb strings.Builder
	sb.WriteString("You are an expert race recommendation AI. ")
	sb.WriteString("Analyze the user's preferences and training data to provide personalized race recommendations.\n\n")

	sb.WriteString("User Preferences:\n")
	fmt.Fprintf(&sb, "- Preferred Distances: %s\n", orNotSpecified(prefs.PreferredDistances))
	fmt.Fprintf(&sb, "- Preferred Difficulty: %s\n", orNotSpecified(prefs.PreferredDifficulty))
	fmt.Fprintf(&sb, "- Preferred Terrain: %s\n", orNotSpecified(prefs.PreferredTerrain))
	fmt.Fprintf(&sb, "- Budget Range: $%.0f - $%.0f\n\n", prefs.BudgetMin, prefs.BudgetMax)

	sb.WriteString("User Training Data:\n")
	fmt.Fprintf(&sb, "- Total Distance Run: %.1f km\n", stats.TotalStats.TotalDistance)
	fmt.Fprintf(&sb, "- Total Training Time: %.0f minutes\n", stats.TotalStats.TotalDuration)
	fmt.Fprintf(&sb, "- Average Pace: %.2f min/km\n", stats.TotalStats.AveragePace)
	fmt.Fprintf(&sb, "- Recent Workouts: %d workouts\n\n", stats.TotalStats.TotalActivities)

	sb.WriteString("Available Races:\n")
	for _, race := range catalog {
		fmt.Fprintf(&sb, `
- %s (%s)
  Location: %s
  Distance: %.1f km
  Difficulty: %s
  Terrain: %s
  Price: $%.0f
  Date: %s
  Description: %s
`,
			race.Title, race.ID, race.Location, race.DistanceKm, race.Difficulty,
			race.Terrain, race.PriceUSD, race.StartsAt.Format("2006-01-02"), race.Description,
		)
	}

	sb.WriteString(`
Instructions:
1. Analyze each race against the user's preferences and training data
2. Calculate a compatibility score (0-100) for each race
3. Provide 3-6 top recommendations with detailed reasoning
4. Consider factors like: distance preference, difficulty level, budget, location, timing, training level

Respond with a JSON object containing:
{
  "recommendations": [
    {
      "raceId": "race_id",
      "score": 85,
      "reasons": ["reason1", "reason2", "reason3"],
      "warnings": ["warning1", "warning2"]
    }
  ],
  "analysis": "Brief summary of the recommendation strategy used"
}

Be specific and practical in your recommendations. Focus on races that truly match the user's profile.
`)

	return sb.String()
}

func orNotSpecified(values []string) string {
	if len(values) == 0 {
		return "Not specified"
	}
	return strings.Join(values, ", ")
}
