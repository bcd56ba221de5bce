package domain

import "errors"

var (
	// ErrDocumentNotFound is returned when a document id is unknown to the repository.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrSessionNotFound is returned when a document has no open editing session.
	ErrSessionNotFound = errors.New("editing session not found")
	// ErrEditorNotFound is returned when an editor acts on a session it never joined.
	ErrEditorNotFound = errors.New("editor not found in session")
	// ErrInvalidDocument indicates stored data could not be decoded into a document.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrUnknownCommand is returned for unsupported editing commands.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrDocumentOpen is returned when deleting a document that is being edited.
	ErrDocumentOpen = errors.New("document is open for editing")
	// ErrProductNotFound is returned when a feed has no record for a product id.
	ErrProductNotFound = errors.New("product not found in feed")
	// ErrProviderUnavailable indicates an external collaborator is not configured.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrInvalidPath is returned for media paths that escape the media folder.
	ErrInvalidPath = errors.New("invalid media path")
)
