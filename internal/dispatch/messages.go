package dispatch

const msgWelcome = `Hi! I'm a GIF bot.

Send /s <query> to search for GIFs, or /help to see everything I can do.`

const msgHelp = `GIF bot commands:

Searching
/s <query> [count] - search for GIFs
/r <query> - one random GIF for a query
/random - a completely random GIF
/trending - what's popular right now

Favorites
/fav add - reply to a GIF to save it
/fav list - show your saved GIFs
/fav remove <number> - delete a favorite
/label <keyword> - reply to a GIF to label it
/gif <keyword> - send a labeled GIF instantly
/info - reply to a GIF to see its details

Extras
/quote [topic] - motivational quote with a GIF
/schedule HH:MM <query> - post a GIF later
/unschedule [id] - list or cancel scheduled posts
/stats - your usage stats

Group settings (admins)
/toggle passive - react to trigger words
/setmax <1-5> - GIFs per search
/safe - toggle content filtering`

// Query pool for /random.
var randomQueries = []string{
	"random", "surprise", "funny", "cute", "awesome",
	"cool", "amazing", "wow", "epic", "crazy",
}

// Fallback quote pool for /quote.
var motivationalQuotes = []string{
	"The only way to do great work is to love what you do.",
	"Success is not final, failure is not fatal: it is the courage to continue that counts.",
	"Believe you can and you're halfway there.",
	"It always seems impossible until it's done.",
	"Don't watch the clock; do what it does. Keep going.",
	"The future belongs to those who believe in the beauty of their dreams.",
	"Hardships often prepare ordinary people for an extraordinary destiny.",
	"Your limitation is only your imagination.",
	"Great things never come from comfort zones.",
	"Dream it. Wish it. Do it.",
}
