package character

// Experience cost tables for growth. These feed event construction (the cost
// recorded on a STAT_GROWN or SKILL_LEARNED event); the reducer only charges
// whatever the event says, so house-ruled costs replay fine.

// StatCost returns the experience cost of raising a stat by one from its
// current value. Grade is twice as expensive as an ability.
func StatCost(current int, isGrade bool) int {
	if current < 0 {
		current = 0
	}
	if isGrade {
		return current * 10
	}
	return current * 5
}

// SkillCost returns the experience cost of learning one more skill under the
// given acquisition method. Free and grade-granted skills cost nothing here;
// a grade skill's cost is carried by the grade raise itself.
func SkillCost(owned int, method AcquisitionType) int {
	if owned < 0 {
		owned = 0
	}
	switch method {
	case AcquisitionStandard:
		return (owned + 1) * 5
	case AcquisitionFree, AcquisitionGrade:
		return 0
	default:
		return 0
	}
}
