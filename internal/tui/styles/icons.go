package styles

const (
	NotedownIcon string = "✎"

	CheckIcon    string = "✓"
	ErrorIcon    string = "✖"
	WarningIcon  string = "⚠"
	InfoIcon     string = "ℹ"
	HintIcon     string = "💡"
	SpinnerIcon  string = "..."
	LoadingIcon  string = "⟳"
	DocumentIcon string = "🗎"
)
