package page

// PageID identifies a top-level page of the app.
type PageID string
