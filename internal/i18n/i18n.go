package i18n

type Language string

const (
	Italian Language = "it"
	English Language = "en"
)

var currentLang = English

type Messages struct {
	// General
	Loading  string
	Error    string
	Yes      string
	No       string
	Notes    string
	Help     string
	Exit     string
	Untitled string

	// Scopes
	Home      string
	Favorites string
	Trash     string
	Notebooks string
	Notebook  string

	// Modes
	ModeNormal    string
	ModeEdit      string
	ModeSearch    string
	ModeSelection string

	// Panels
	NoNoteSelected string
	EmptyList      string
	PinnedSection  string
	OthersSection  string

	// Metadata
	CreatedAt  string
	ModifiedAt string
	Color      string
	Selected   string

	// Sort keys
	SortAlphabetical  string
	SortAlphaDesc     string
	SortCreatedAsc    string
	SortCreatedDesc   string
	SortModifiedAsc   string
	SortModifiedDesc  string
	SortNotebookAlpha string
	SortNotebookDate  string
	Ascending         string
	Descending        string

	// Context menu
	MenuCopy           string
	MenuAddFavorite    string
	MenuRemoveFavorite string
	MenuPin            string
	MenuUnpin          string
	MenuMoveToTrash    string
	MenuRestore        string
	MenuDeleteForever  string
	MenuMove           string

	// Dialogs
	NewNote              string
	NewNotebook          string
	Search               string
	TitlePlaceholder     string
	NotePlaceholder      string
	NotebookPlaceholder  string
	EmptyTrash           string
	EmptyTrashConfirm    string
	DeleteSelected       string
	DeleteConfirm        string
	DeleteNotebook       string
	DeleteNotebookPrompt string
	EnterConfirm         string
	EscCancel            string

	// Transient messages
	BlankNote      string
	NoteCopied     string
	NoteTrashed    string
	NoteMoved      string
	UndoHint       string
	NotesRestored  string
	NotesPurged    string
	NotebookSaved  string
	NotebookGone   string
	NotebookNeeded string
	DefaultKept    string

	// Help
	HelpNavigation string
	HelpNotes      string
	HelpViews      string
	HelpUp         string
	HelpDown       string
	HelpOpen       string
	HelpEdit       string
	HelpSave       string
	HelpNew        string
	HelpMenu       string
	HelpSelect     string
	HelpSearch     string
	HelpSort       string
	HelpUndo       string
	HelpHome       string
	HelpFavorites  string
	HelpTrash      string
	HelpNotebooks  string
	HelpHelp       string
	HelpExit       string

	// Short key hints
	KeyUp       string
	KeyDown     string
	KeyEnter    string
	KeyEdit     string
	KeyEscape   string
	KeySave     string
	KeyNew      string
	KeyMenu     string
	KeySelect   string
	KeySearch   string
	KeySort     string
	KeyUndo     string
	KeyDelete   string
	KeyRestore  string
	KeyEmpty    string
	KeyQuit     string
	KeyHelp     string
	KeyViews    string
	KeyNotebook string
	KeyMove     string
}

var translations = map[Language]Messages{
	Italian: {
		Loading:  "Caricamento...",
		Error:    "Errore",
		Yes:      "Sì",
		No:       "No",
		Notes:    "note",
		Help:     "Aiuto",
		Exit:     "Esci",
		Untitled: "Senza titolo",

		Home:      "Home",
		Favorites: "Preferiti",
		Trash:     "Cestino",
		Notebooks: "Quaderni",
		Notebook:  "Quaderno",

		ModeNormal:    "NORMALE",
		ModeEdit:      "MODIFICA",
		ModeSearch:    "CERCA",
		ModeSelection: "SELEZIONE",

		NoNoteSelected: "Nessuna nota selezionata",
		EmptyList:      "Niente da mostrare",
		PinnedSection:  "FISSATE",
		OthersSection:  "ALTRE",

		CreatedAt:  "Creata:",
		ModifiedAt: "Modificata:",
		Color:      "Colore:",
		Selected:   "selezionate",

		SortAlphabetical:  "Alfabetico",
		SortAlphaDesc:     "Alfabetico (Z-A)",
		SortCreatedAsc:    "Creazione (meno recenti)",
		SortCreatedDesc:   "Creazione (più recenti)",
		SortModifiedAsc:   "Modifica (meno recenti)",
		SortModifiedDesc:  "Modifica (più recenti)",
		SortNotebookAlpha: "Alfabetico",
		SortNotebookDate:  "Data di creazione",
		Ascending:         "Crescente",
		Descending:        "Decrescente",

		MenuCopy:           "Copia",
		MenuAddFavorite:    "Aggiungi ai preferiti",
		MenuRemoveFavorite: "Rimuovi dai preferiti",
		MenuPin:            "Fissa",
		MenuUnpin:          "Sblocca",
		MenuMoveToTrash:    "Sposta nel cestino",
		MenuRestore:        "Ripristina",
		MenuDeleteForever:  "Elimina definitivamente",
		MenuMove:           "Sposta nel quaderno",

		NewNote:              "Nuova Nota",
		NewNotebook:          "Nuovo Quaderno",
		Search:               "Cerca",
		TitlePlaceholder:     "Titolo nota...",
		NotePlaceholder:      "Scrivi qui...",
		NotebookPlaceholder:  "Nome quaderno...",
		EmptyTrash:           "Svuota Cestino",
		EmptyTrashConfirm:    "Eliminare definitivamente tutte le note nel cestino?",
		DeleteSelected:       "Elimina Selezionate",
		DeleteConfirm:        "Eliminare definitivamente %d note?",
		DeleteNotebook:       "Elimina Quaderno",
		DeleteNotebookPrompt: "Eliminare '%s'? Le sue note passano al quaderno predefinito.",
		EnterConfirm:         "[Enter] Conferma",
		EscCancel:            "[Esc] Annulla",

		BlankNote:      "Una nota vuota non viene salvata",
		NoteCopied:     "Nota copiata",
		NoteTrashed:    "Nota spostata nel cestino",
		NoteMoved:      "Nota spostata in %s",
		UndoHint:       "[u] Annulla",
		NotesRestored:  "%d note ripristinate",
		NotesPurged:    "%d note eliminate",
		NotebookSaved:  "Quaderno salvato",
		NotebookGone:   "Quaderno eliminato, %d note spostate",
		NotebookNeeded: "Devi dare un nome al quaderno",
		DefaultKept:    "Il quaderno predefinito non può essere eliminato",

		HelpNavigation: "NAVIGAZIONE",
		HelpNotes:      "NOTE",
		HelpViews:      "VISTE",
		HelpUp:         "Su",
		HelpDown:       "Giù",
		HelpOpen:       "Apri",
		HelpEdit:       "Modifica nota",
		HelpSave:       "Salva",
		HelpNew:        "Nuova nota / quaderno",
		HelpMenu:       "Menu contestuale",
		HelpSelect:     "Seleziona",
		HelpSearch:     "Cerca per titolo",
		HelpSort:       "Cambia ordinamento",
		HelpUndo:       "Annulla eliminazione",
		HelpHome:       "Home",
		HelpFavorites:  "Preferiti",
		HelpTrash:      "Cestino",
		HelpNotebooks:  "Quaderni",
		HelpHelp:       "Mostra aiuto",
		HelpExit:       "Esci",

		KeyUp:       "su",
		KeyDown:     "giù",
		KeyEnter:    "apri",
		KeyEdit:     "modifica",
		KeyEscape:   "indietro",
		KeySave:     "salva",
		KeyNew:      "nuova",
		KeyMenu:     "menu",
		KeySelect:   "seleziona",
		KeySearch:   "cerca",
		KeySort:     "ordina",
		KeyUndo:     "annulla",
		KeyDelete:   "elimina",
		KeyRestore:  "ripristina",
		KeyEmpty:    "svuota",
		KeyQuit:     "esci",
		KeyHelp:     "aiuto",
		KeyViews:    "viste",
		KeyNotebook: "quaderno",
		KeyMove:     "sposta",
	},
	English: {
		Loading:  "Loading...",
		Error:    "Error",
		Yes:      "Yes",
		No:       "No",
		Notes:    "notes",
		Help:     "Help",
		Exit:     "Exit",
		Untitled: "Untitled",

		Home:      "Home",
		Favorites: "Favorites",
		Trash:     "Trash",
		Notebooks: "Notebooks",
		Notebook:  "Notebook",

		ModeNormal:    "NORMAL",
		ModeEdit:      "EDIT",
		ModeSearch:    "SEARCH",
		ModeSelection: "SELECTION",

		NoNoteSelected: "No note selected",
		EmptyList:      "Nothing to show",
		PinnedSection:  "PINNED",
		OthersSection:  "OTHERS",

		CreatedAt:  "Created:",
		ModifiedAt: "Modified:",
		Color:      "Color:",
		Selected:   "selected",

		SortAlphabetical:  "Alphabetical",
		SortAlphaDesc:     "Alphabetical (Z-A)",
		SortCreatedAsc:    "Created (oldest first)",
		SortCreatedDesc:   "Created (newest first)",
		SortModifiedAsc:   "Modified (oldest first)",
		SortModifiedDesc:  "Modified (newest first)",
		SortNotebookAlpha: "Alphabetically",
		SortNotebookDate:  "Creation date",
		Ascending:         "Ascending",
		Descending:        "Descending",

		MenuCopy:           "Copy",
		MenuAddFavorite:    "Add to favorites",
		MenuRemoveFavorite: "Remove from favorites",
		MenuPin:            "Pin",
		MenuUnpin:          "Unpin",
		MenuMoveToTrash:    "Move to trash",
		MenuRestore:        "Restore",
		MenuDeleteForever:  "Delete forever",
		MenuMove:           "Move to notebook",

		NewNote:              "New Note",
		NewNotebook:          "New Notebook",
		Search:               "Search",
		TitlePlaceholder:     "Note title...",
		NotePlaceholder:      "Write here...",
		NotebookPlaceholder:  "Notebook name...",
		EmptyTrash:           "Empty Trash",
		EmptyTrashConfirm:    "Permanently delete every note in the trash?",
		DeleteSelected:       "Delete Selected",
		DeleteConfirm:        "Permanently delete %d notes?",
		DeleteNotebook:       "Delete Notebook",
		DeleteNotebookPrompt: "Delete '%s'? Its notes move to the default notebook.",
		EnterConfirm:         "[Enter] Confirm",
		EscCancel:            "[Esc] Cancel",

		BlankNote:      "Empty note discarded",
		NoteCopied:     "Note copied",
		NoteTrashed:    "Note moved to trash",
		NoteMoved:      "Note moved to %s",
		UndoHint:       "[u] Undo",
		NotesRestored:  "%d notes restored",
		NotesPurged:    "%d notes deleted",
		NotebookSaved:  "Notebook saved",
		NotebookGone:   "Notebook deleted, %d notes moved",
		NotebookNeeded: "You must set a name for the notebook",
		DefaultKept:    "The default notebook cannot be deleted",

		HelpNavigation: "NAVIGATION",
		HelpNotes:      "NOTES",
		HelpViews:      "VIEWS",
		HelpUp:         "Move up",
		HelpDown:       "Move down",
		HelpOpen:       "Open",
		HelpEdit:       "Edit note",
		HelpSave:       "Save",
		HelpNew:        "New note / notebook",
		HelpMenu:       "Context menu",
		HelpSelect:     "Toggle selection",
		HelpSearch:     "Search by title",
		HelpSort:       "Change sort order",
		HelpUndo:       "Undo move to trash",
		HelpHome:       "Home",
		HelpFavorites:  "Favorites",
		HelpTrash:      "Trash",
		HelpNotebooks:  "Notebooks",
		HelpHelp:       "Show help",
		HelpExit:       "Quit",

		KeyUp:       "up",
		KeyDown:     "down",
		KeyEnter:    "open",
		KeyEdit:     "edit",
		KeyEscape:   "back",
		KeySave:     "save",
		KeyNew:      "new",
		KeyMenu:     "menu",
		KeySelect:   "select",
		KeySearch:   "search",
		KeySort:     "sort",
		KeyUndo:     "undo",
		KeyDelete:   "delete",
		KeyRestore:  "restore",
		KeyEmpty:    "empty",
		KeyQuit:     "quit",
		KeyHelp:     "help",
		KeyViews:    "views",
		KeyNotebook: "notebook",
		KeyMove:     "move",
	},
}

func SetLanguage(lang Language) {
	if _, ok := translations[lang]; ok {
		currentLang = lang
	}
}

func T() Messages {
	return translations[currentLang]
}
