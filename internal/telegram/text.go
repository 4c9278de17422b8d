package telegram

import (
	"strings"

	"github.com/abhisek/attestiz/internal/bank"
)

const (
	textGreeting = "Hello! This bot runs a certification assessment: first a block of common questions, " +
		"then a block for the position you choose. Answer with the buttons only; " +
		"you will see right away whether an answer is correct.\n\n" +
		"To begin, please enter your full name."
	textNameRequired  = "Please enter your full name (first and last name)."
	textNoRoles       = "No positions are configured for the assessment. Please contact the bot administrator."
	textChooseRole    = "Choose a position from the buttons above to continue."
	textUseButtons    = "Answer with the buttons under the question."
	textSendStart     = "Send /start to begin the assessment."
	textUnknownAction = "Unknown action."
	textRoleChosen    = "Position selected, let's begin!"
	textStarting      = "Great, %s! We start with the common questions, then move on to the block for your position.\n" +
		"Answer every question with the buttons. Questions appear one by one in the same message."
	textBlockClosing = "%s finished. Preparing the second block..."
	textBlockSwitch  = "%s finished ✅\nNow %s. %d questions for your position are ahead."
	textFinished     = "The assessment is complete. Preparing your individual report..."
)

func roleListText(roles []bank.RoleSet) string {
	lines := []string{"Thank you! Now choose the position you are being assessed for:"}
	for _, r := range roles {
		lines = append(lines, "- "+r.Title)
	}
	return strings.Join(lines, "\n")
}
