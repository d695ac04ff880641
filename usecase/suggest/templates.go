package suggest

import "github.com/nestly/backend/domain"

// template is one synthetic candidate task. Suggestions built from these get
// Source = ai_mentor so they never pollute the manual-task views.
type template struct {
	Title       string
	Description string
	Priority    domain.Priority
}

// quickWinOrder is the category precedence for the quick-win slot.
var quickWinOrder = []domain.Category{
	domain.CategoryPersonal,
	domain.CategoryRelationship,
	domain.CategoryHealth,
	domain.CategoryHomeProjects,
	domain.CategoryHousehold,
	domain.CategoryBaby,
	domain.CategoryMaintenance,
	domain.CategoryEvents,
}

// categoryPool holds low-effort candidates per category, in preference order.
var categoryPool = map[domain.Category][]template{
	domain.CategoryPersonal: {
		{Title: "Take 10 minutes for yourself", Description: "Coffee, a walk, or just silence.", Priority: domain.PriorityLow},
		{Title: "Reply to that message you keep postponing", Priority: domain.PriorityLow},
		{Title: "Write down three things that went well today", Priority: domain.PriorityLow},
	},
	domain.CategoryRelationship: {
		{Title: "Send your partner an appreciative text", Priority: domain.PriorityLow},
		{Title: "Plan a date night for this month", Priority: domain.PriorityMedium},
		{Title: "Ask your partner how their day really was", Priority: domain.PriorityLow},
	},
	domain.CategoryHealth: {
		{Title: "Drink a full glass of water", Priority: domain.PriorityLow},
		{Title: "Do a 5 minute stretch", Priority: domain.PriorityLow},
		{Title: "Book that checkup you keep putting off", Priority: domain.PriorityMedium},
	},
	domain.CategoryHomeProjects: {
		{Title: "Spend 15 minutes on your current home project", Priority: domain.PriorityLow},
		{Title: "Measure up for the next fix", Priority: domain.PriorityLow},
	},
	domain.CategoryHousehold: {
		{Title: "Clear one kitchen counter", Priority: domain.PriorityLow},
		{Title: "Run one load of laundry", Priority: domain.PriorityLow},
		{Title: "Empty the dishwasher", Priority: domain.PriorityLow},
	},
	domain.CategoryBaby: {
		{Title: "Restock the diaper bag", Priority: domain.PriorityLow},
		{Title: "Take a photo of the baby for the grandparents", Priority: domain.PriorityLow},
		{Title: "Sort outgrown baby clothes", Priority: domain.PriorityMedium},
	},
	domain.CategoryMaintenance: {
		{Title: "Check the smoke detector batteries", Priority: domain.PriorityLow},
		{Title: "Top up the car washer fluid", Priority: domain.PriorityLow},
	},
	domain.CategoryEvents: {
		{Title: "Check the calendar for upcoming birthdays", Priority: domain.PriorityLow},
	},
}

// Contextual pools keyed by the time-of-day / day-of-week windows.
var (
	morningPool = []template{
		{Title: "Prep tonight's dinner in the morning calm", Priority: domain.PriorityLow},
		{Title: "Lay out everything for the day before it starts", Priority: domain.PriorityLow},
	}
	eveningPool = []template{
		{Title: "Do a 10 minute evening reset of the living room", Priority: domain.PriorityLow},
		{Title: "Prepare tomorrow's bag tonight", Priority: domain.PriorityLow},
	}
	weekendPool = []template{
		{Title: "Plan one family outing for the weekend", Priority: domain.PriorityMedium},
		{Title: "Tackle one small home project together", Priority: domain.PriorityMedium},
	}
	fridayPool = []template{
		{Title: "Close the week: clear your task list of leftovers", Priority: domain.PriorityLow},
		{Title: "Plan something nice for the weekend", Priority: domain.PriorityLow},
	}
)

// fillCategories are drawn from, least-represented first, when fewer than
// three suggestions came out of the deterministic steps.
var fillCategories = []domain.Category{
	domain.CategoryRelationship,
	domain.CategoryBaby,
	domain.CategoryHousehold,
}
