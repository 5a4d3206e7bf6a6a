package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/scoring"
	"meal-planner/internal/shopping"
)

func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func formatPlan(plan *planner.WeeklyMealPlan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 *Weekly Meal Plan* (from %s)\n", plan.StartDate)
	fmt.Fprintf(&sb, "🎯 %d kcal · P %dg · F %dg · C %dg\n\n",
		plan.TargetCalories, plan.TargetMacros.Protein, plan.TargetMacros.Fat, plan.TargetMacros.Carbs)

	for _, day := range plan.Days {
		fmt.Fprintf(&sb, "*%s*\n", day.Date)
		for _, m := range day.Meals {
			fmt.Fprintf(&sb, "• %s: %s (%.0f kcal)\n", slotLabel(string(m.Slot)), esc(m.Name), m.Calories)
		}
		fmt.Fprintf(&sb, "Σ %.0f kcal\n\n", day.DailyTotals.Calories)
	}

	avg := plan.WeeklyAverages
	fmt.Fprintf(&sb, "📊 *Average:* %.0f kcal · P %.0fg · F %.0fg · C %.0fg", avg.Calories, avg.Protein, avg.Fat, avg.Carbs)
	if len(plan.Warnings) > 0 {
		sb.WriteString("\n\n⚠️ *Notes*\n")
		for _, w := range plan.Warnings {
			fmt.Fprintf(&sb, "• %s\n", esc(w))
		}
	}
	return sb.String()
}

func formatDay(day planner.DayPlan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🍽 *Today* (%s)\n\n", day.Date)
	for _, m := range day.Meals {
		fmt.Fprintf(&sb, "*%s*: %s\n", slotLabel(string(m.Slot)), esc(m.Name))
		fmt.Fprintf(&sb, "%.0f kcal · P %.0fg · F %.0fg · C %.0fg\n\n", m.Calories, m.Protein, m.Fat, m.Carbs)
	}
	fmt.Fprintf(&sb, "Σ %.0f kcal", day.DailyTotals.Calories)
	return sb.String()
}

func formatAdvice(res *scoring.QuizResult) string {
	var sb strings.Builder
	sb.WriteString("💡 *Your Advice*\n\n")
	fmt.Fprintf(&sb, "BMI %.1f (%s) · goal: %s · %d kcal/day\n\n", res.BMI, res.BMICategory, res.Goal, res.RecommendedCalories)
	for _, tip := range res.Advice {
		fmt.Fprintf(&sb, "• %s\n", esc(tip))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatShoppingList(list *shopping.ShoppingList) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🛒 *Shopping List* (week of %s)\n\n", list.StartDate)
	if len(list.Items) == 0 {
		sb.WriteString("_No ingredients listed for this plan_")
		return sb.String()
	}
	for _, it := range list.Items {
		fmt.Fprintf(&sb, "• %s\n", esc(it.String()))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatStats(stats []metrics.DailyStats, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Plan Generation*\n")
	if len(stats) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range stats {
		fmt.Fprintf(&sb, "• *%s*: %d plans, %d failed, %.0f ms avg\n", d.Date, d.Generations, d.Failures, d.AvgLatencyMS)
	}

	sb.WriteString("\n🧠 *System Health*\n")
	fmt.Fprintf(&sb, "• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Disk Data: %s", health.DataDiskSize)
	return sb.String()
}

func slotLabel(slot string) string {
	if slot == "" {
		return slot
	}
	return strings.ToUpper(slot[:1]) + slot[1:]
}
