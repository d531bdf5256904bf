package handlers

// User-facing texts. Backend failures always map to one of the short
// retry-later messages; internal detail never reaches the chat.
const (
	msgAccountError     = "An error occurred while fetching your account."
	msgJoinPrompt       = "Please join our channels to start using the bot."
	msgMainMenu         = "🎉 Welcome to the main menu! Choose an option below:"
	msgJoinThanks       = "Thank you for joining!"
	msgJoinIncomplete   = "You have not joined all channels."
	msgJoinCheckError   = "An error occurred. Make sure the bot is an admin in the channels."
	msgBalanceError     = "Could not retrieve your balance. Please /start the bot again."
	msgReferError       = "Could not generate a referral link at this time."
	msgWithdrawPrompt   = "Please enter the amount you would like to withdraw."
	msgWithdrawFetch    = "😟 Could not fetch your details. Please try again."
	msgInvalidAmount    = "Invalid amount. Please enter a positive number."
	msgWithdrawVerify   = "😟 Could not verify your balance. Please try the withdrawal process again."
	msgWithdrawProcess  = "😟 There was an error processing your request. Please try again."
	msgBonusError       = "Could not process your bonus claim right now. Please try again later."
	msgBonusClaimed     = "🎉 Congratulations! You have successfully claimed your 5 RP bonus."
	msgEarnMore         = "Visit this amazing earning platform! 🚀"
	labelEarnMoreButton = "💎 Start Earning Now"
)
