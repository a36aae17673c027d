package core

// DailyOverdueRate is charged per started day past the due date.
var DailyOverdueRate = Dollars(1)

// DaysOverdue returns the started days between dueDate and returnDate, or 0 for an
// on-time or early return. There is no credit for returning early.
func DaysOverdue(dueDate, returnDate Date) int {
	days := returnDate.DaysSince(dueDate)
	if days < 0 {
		return 0
	}

	return days
}

// OverdueFine is the fine charged when a loan due on dueDate is returned on returnDate.
func OverdueFine(dueDate, returnDate Date) Money {
	return DailyOverdueRate.Times(int64(DaysOverdue(dueDate, returnDate)))
}

// ProjectedFine estimates what an open loan would be charged if returned today.
// It must stay identical to OverdueFine so displayed and charged amounts agree.
func ProjectedFine(dueDate, today Date) Money {
	return OverdueFine(dueDate, today)
}
