package scoring

import (
	"meal-planner/internal/quiz"
	"meal-planner/internal/shared"
)

const (
	minSleepHours   = 7.0
	minWaterMl      = 2000
	highStressLevel = 4
)

var goalTips = map[shared.Goal]string{
	shared.GoalLose:     "Aim for a steady 500 kcal daily deficit and include a protein source in every meal to protect muscle.",
	shared.GoalGain:     "Add around 300 kcal a day with nutrient-dense snacks and pair the surplus with strength training.",
	shared.GoalMaintain: "Keep your intake close to your daily energy needs and check your weight once a week to stay on track.",
}

const (
	sleepTip    = "You sleep less than 7 hours. A consistent, earlier bedtime helps with appetite control and recovery."
	activityTip = "Your activity level is low. Start with a 20 to 30 minute walk every day and build up from there."
	waterTip    = "You drink less than 2 litres of water a day. Keep a bottle close and refill it between meals."
	stressTip   = "High stress often leads to cravings. Plan regular meals and take short breaks to breathe or stretch."
)

// Advice returns the tips that apply to the answers. The goal tip always comes first;
// the others are checked independently in a fixed order.
func Advice(goal shared.Goal, activity shared.ActivityLevel, a quiz.NormalizedAnswers) []string {
	tips := []string{goalTips[goal]}
	if a.SleepHours != nil && *a.SleepHours < minSleepHours {
		tips = append(tips, sleepTip)
	}
	if activity == shared.ActivitySedentary || activity == shared.ActivityLight {
		tips = append(tips, activityTip)
	}
	if a.WaterIntakeMl != nil && *a.WaterIntakeMl < minWaterMl {
		tips = append(tips, waterTip)
	}
	if a.StressLevel != nil && *a.StressLevel >= highStressLevel {
		tips = append(tips, stressTip)
	}
	return tips
}
