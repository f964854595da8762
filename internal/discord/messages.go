package discord

// Friendly message constants for Discord responses
const (
	MsgInsufficientFunds = "⚠️ **Not Enough Coins!**\nYou don't have enough coins for that."
	MsgInvalidWager      = "⚠️ **Invalid Wager**\nThe wager has to be a positive amount you can cover."

	MsgSessionConflict = "🎮 **Game In Progress**\nFinish your current game before starting another."
	MsgSessionNotFound = "❓ **No Active Game**\nThat game already ended or never started."
	MsgNotOwner        = "🚫 **Not Your Game**\nOnly the player who started this game can act on it."
	MsgIllegalAction   = "🚫 **Can't Do That**\nThat move isn't available right now."

	MsgClaimNotReady = "⏳ **Not Yet!**\nThat reward is still on cooldown."

	MsgItemNotFound    = "❓ **Item Not Found**\nMaybe check the spelling?"
	MsgInvalidBetSpace = "❓ **Unknown Space**\nBet on a number (0-36), red/black, odd/even, high/low or a dozen."
	MsgInvalidInput    = "⚠️ **Invalid Input**"

	MsgAdminOnly = "🔒 **Admins Only**\nYou need the Manage Server permission for that."

	MsgGenericError = "❌ Something went wrong."
)
