// SPDX-License-Identifier: MPL-2.0

package hostapi

import "context"

type (
	// SummaryStore reads and writes the document-level descriptive fields.
	SummaryStore interface {
		SummaryField(f SummaryField) (string, error)
		SetSummaryField(f SummaryField, value string) error
	}

	// Document is an open host document the user is publishing.
	Document interface {
		SummaryStore

		// Kind reports the document classification.
		Kind() DocumentKind
		// SavedPath is the file the document was last saved to, or "" if never saved.
		SavedPath() string
		// DisplayTitle is the title the host shows for the document window.
		DisplayTitle() string
		// ExportTo writes the document to path in the format implied by its extension.
		ExportTo(path string, opts ExportOptions) (ExportStatus, error)
	}

	// PreferenceStore reads and writes host-wide boolean preferences.
	PreferenceStore interface {
		PreferenceToggle(key PreferenceKey) (bool, error)
		SetPreferenceToggle(key PreferenceKey, value bool) error
	}

	// Host is the application-level surface the workflow needs besides the document.
	Host interface {
		PreferenceStore

		// RevisionNumber is the host's internal version string, e.g. "30.2.1".
		RevisionNumber() string
	}

	// DialogRequest is everything handed to the uploader for one publish.
	DialogRequest struct {
		ArtifactPath string
		Metadata     Metadata
		// AuthToken is a pre-supplied service token; nil lets the uploader authenticate.
		AuthToken *string
		// ThumbnailPath is a pre-rendered preview image; nil means no thumbnail.
		ThumbnailPath *string
		// SourceTag identifies the exporting host and release, e.g. "solidworks-2022".
		SourceTag string
	}

	// UploadOutcome is the user's decision returned by the uploader.
	UploadOutcome struct {
		// Confirmed is true when the user went through with the upload.
		Confirmed bool `toml:"confirmed"`
		// PersistMetadataEdits asks for EditedMetadata to be written back to the document.
		PersistMetadataEdits bool `toml:"persist_metadata"`
		// EditedMetadata is the metadata as the user left it in the dialog.
		EditedMetadata Metadata `toml:"metadata"`
	}

	// Uploader presents the publish dialog and blocks until the user decides.
	Uploader interface {
		ShowPublishDialog(ctx context.Context, req DialogRequest) (UploadOutcome, error)
	}
)

// ShouldCommit reports whether the edited metadata must be written back.
func (o UploadOutcome) ShouldCommit() bool {
	return o.Confirmed && o.PersistMetadataEdits
}
