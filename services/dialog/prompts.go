package dialog

import (
	"fmt"
	"time"

	"voicedesk/models"
)

const (
	promptGreeting = "Thanks for calling. May I have your full name, please?"

	promptRetryName    = "Sorry, I didn't catch your name. Could you say your first and last name?"
	promptAskMobile    = "Thanks, %s. What's the best mobile number to reach you on?"
	promptRetryMobile  = "Sorry, I didn't get that number. Could you say your mobile number one digit at a time?"
	promptAskTime      = "Great. What day and time would you like to come in?"
	promptRetryTime    = "Sorry, I didn't catch a day and time. Could you say something like Thursday at 9:30 in the morning?"
	promptOutsideHours = "We're not open then, I'm afraid."
	promptNextOpening  = " The next time we're open is %s. Would that work, or is there another time you'd prefer?"
	promptConfirm      = "Just to confirm: %s, %s, appointment on %s. Shall I book that?"
	promptRetryConfirm = "Sorry, was that a yes or a no?"
	promptRebook       = "No problem. What day and time would suit you better?"
	promptBooked       = "You're all set, %s. We'll see you on %s. Goodbye!"
	promptBookingDown  = "I'm sorry, I couldn't save your booking just now. Shall I try again?"
	promptAlreadyDone  = "Your appointment is already booked. Goodbye!"
)

// spokenTime renders an instant the way a voice prompt should say it.
func spokenTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Monday, January 2 at 3:04 PM")
}

func confirmPrompt(sess *models.ConversationSession, loc *time.Location) string {
	return fmt.Sprintf(promptConfirm,
		sess.Fields.FullName,
		sess.Fields.Phone,
		spokenTime(*sess.Fields.StartTimeUTC, loc))
}
