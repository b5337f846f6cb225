package bot

// Main menu button labels.
const (
	buttonSleep    = "🛌 Sleep"
	buttonFeed     = "🍽️ Feed"
	buttonPlay     = "🌿 Play"
	buttonWalk     = "🌳 Walk"
	buttonBioWalk  = "🧻 Bio walk"
	buttonToilet   = "🚽 Toilet"
	buttonManual   = "➕ Add manually"
	buttonEdit     = "✏️ Edit"
	buttonLast     = "🕑 Last"
	buttonStats    = "📊 Stats"
	buttonBackup   = "📦 Backup"
	buttonCommands = "🧾 Commands"
	buttonSchedule = "⏰ Schedule"
	buttonFeedings = "🔢 Feedings"
)

// Stats period buttons.
const (
	period2  = "2 days"
	period5  = "5 days"
	period10 = "10 days"
)

// MainMenu is the default reply keyboard.
var MainMenu = [][]string{
	{buttonSleep, buttonManual},
	{buttonFeed, buttonPlay},
	{buttonWalk, buttonBioWalk},
	{buttonToilet, buttonEdit},
	{buttonStats, buttonLast},
	{buttonCommands, buttonSchedule},
	{buttonFeedings, buttonBackup},
}

// statsMenu offers the trailing-window choices.
var statsMenu = [][]string{{period2}, {period5}, {period10}}
