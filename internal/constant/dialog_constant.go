package constant

// FSM state tags persisted in the session record.
const (
	StateChoosingCity               = "choosing_city"
	StateEnteringStore              = "entering_store"
	StateEnteringQueryName          = "entering_query_name"
	StateRenamingQueryName          = "renaming_query_name"
	StateEditingSavedQuery          = "editing_saved_query"
	StateEditingSavedQueryStoresMenu = "editing_saved_query_stores_menu"
)

// Reply-keyboard command labels. These take precedence over free text.
const (
	CmdStart       = "/start"
	CmdAddStore    = "🛍️ Add store"
	CmdSearch      = "🔍 Search"
	CmdEditList    = "🧾 Edit list"
	CmdChangeCity  = "🔁 Change city"
	CmdNewSearch   = "🆕 New search"
	CmdClearList   = "🗑 Clear list"
	CmdSavedList   = "📜 Saved queries"
	CmdBack        = "⬅️ Back"
	CmdRename      = "✏️ Rename"
	CmdEditStores  = "🛒 Edit stores"
	CmdDeleteQuery = "🗑 Delete"
	CmdAddToQuery  = "➕ Add to query"
	CmdSaveQuery   = "💾 Save"
	CmdRemoveStore = "🗑 Remove store"
)

// Inline-button labels.
const (
	BtnWrongStore = "❌ Not this store"
	BtnSaveQuery  = "💾 Save query"
)

const WelcomeText = `<b>Welcome to MallFinder 🛍️</b>

This bot helps you find shopping malls that host the stores you need.

🛒 Just:
1. Pick a city
2. Type store names
3. Get the malls hosting them (with addresses and floors)

<b>Abbreviations and brand synonyms work too!</b>

The bot is not an official representative of the listed malls or stores. Information may be inaccurate or out of date.`

const StoreMenuHint = `Now you can:
🛍️ Add store — type a store name
🔍 Search — find malls with your stores
🧾 Edit list — review or remove stores

Type a store name and press enter`

const (
	MsgCityUnavailable    = "Only the configured cities are available for now"
	MsgChooseCity         = "Choose a city:"
	MsgChooseAction       = "Choose an action:"
	MsgEnterStoreName     = "Enter a store name:"
	MsgEnterStoreToAdd    = "Enter the name of the store you want to add:"
	MsgEnterQueryName     = "Enter a name for this query:"
	MsgEnterNewName       = "Enter a new name:"
	MsgEmptyQueryName     = "The query name cannot be empty. Please enter a name:"
	MsgListEmpty          = "The list is empty"
	MsgListEmptyEphemeral = "The list is empty (changes will not persist into the query)"
	MsgListCleared        = "Store list cleared"
	MsgNoSavedQueries     = "You have no saved queries"
	MsgPickQueryToLoad    = "Pick a list to load:"
	MsgNoMatches          = "No stores found 😔"
	MsgNoCitySelected     = "Pick a city first via /start"
	MsgNoStoresYet        = "Add some stores before searching"
	MsgInvalidNumber      = "❌ Invalid number"
	MsgInvalidNumberSaved = "That store number does not match the list. Check the list and try again."
	MsgChangesSaved       = "✅ Changes saved"
	MsgNameUpdated        = "✅ Name updated"
	MsgQueryDeleted       = "Query deleted."
	MsgQueryDeleteFailed  = "Could not delete the query. It may already be gone."
	MsgQueryGone          = "🔎 Could not find this query. It may have been deleted. Pick another one from the list or create a new one."
	MsgQueryLoadFailed    = "Could not find the selected query. Please pick another one from the list."
	MsgNothingToSave      = "The store list is empty, nothing to save."
	MsgStaleButton        = "This button is stale or no longer works. Refresh the menu or start over."
	MsgPickStoreFailed    = "🏪 Could not determine the store. Pick one from the list or try again."
	MsgNoSimilarStores    = "Could not find similar stores. Adjust the query or type the name manually"
	MsgGenericError       = "Something went wrong. Please try again or start over with /start."
	MsgUnknownAction      = "Could not recognize the action. Please start over with /start"
	MsgNewSearchStarted   = "✅ Started a new empty search."
)
