package plexref

import (
	"github.com/rs/zerolog/log"

	"mediaimport/model"
)

// observer logs Plex source/import lifecycle transitions at debug
// level, standing in for the GUI-bus forwarding a production Observer
// would do (§6.2).
type observer struct{}

func newObserver() *observer { return &observer{} }

func (observer) OnSourceAdded(s *model.Source)       { log.Debug().Str("source", s.Identifier).Msg("plex: source added") }
func (observer) OnSourceUpdated(s *model.Source)     { log.Debug().Str("source", s.Identifier).Msg("plex: source updated") }
func (observer) OnSourceRemoved(s *model.Source)     { log.Debug().Str("source", s.Identifier).Msg("plex: source removed") }
func (observer) OnSourceActivated(s *model.Source)   { log.Debug().Str("source", s.Identifier).Msg("plex: source activated") }
func (observer) OnSourceDeactivated(s *model.Source) { log.Debug().Str("source", s.Identifier).Msg("plex: source deactivated") }
func (observer) OnImportAdded(i *model.Import)       { log.Debug().Str("path", i.Path).Msg("plex: import added") }
func (observer) OnImportUpdated(i *model.Import)     { log.Debug().Str("path", i.Path).Msg("plex: import updated") }
func (observer) OnImportRemoved(i *model.Import)     { log.Debug().Str("path", i.Path).Msg("plex: import removed") }
