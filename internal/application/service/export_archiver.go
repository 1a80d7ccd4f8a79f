package service

import (
	"context"
	"fmt"
	"path"

	"github.com/teerapatzza/travel-claim/internal/application/dispatcher"
	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/domain/event"
)

// ExportArchiver keeps a copy of every exported claim document
type ExportArchiver struct {
	storage port.FileStorage
	logger  Logger
}

// NewExportArchiver creates an ExportArchiver writing into storage
func NewExportArchiver(storage port.FileStorage, logger Logger) *ExportArchiver {
	return &ExportArchiver{
		storage: storage,
		logger:  logger,
	}
}

// Register subscribes the archiver to export events
func (a *ExportArchiver) Register(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeClaimExported, "export-archiver", a.Handle)
}

// Handle stores the document under <session>/<timestamp>_<file name>
func (a *ExportArchiver) Handle(ctx context.Context, evt *event.Event) error {
	content := evt.GetPayloadBytes(event.KeyContent)
	if len(content) == 0 {
		return fmt.Errorf("export event %s has no content", evt.ID)
	}

	name := path.Base(evt.GetPayloadString(event.KeyFileName))
	if name == "." || name == "/" {
		name = "claim." + evt.GetPayloadString(event.KeyFormat)
	}
	rel := path.Join(evt.SessionID, evt.Timestamp.Format("20060102T150405")+"_"+name)

	if err := a.storage.Save(ctx, rel, content); err != nil {
		a.logger.Error("Failed to archive exported claim", "session_id", evt.SessionID, "path", rel, "error", err)
		return err
	}

	a.logger.Info("Exported claim archived", "session_id", evt.SessionID, "path", rel, "size", len(content))
	return nil
}
