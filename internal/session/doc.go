// Package session provides an in-memory modal editing session that hosts
// a remapper.
//
// A Session owns the mode, a single-line text buffer with multiple
// cursors, the pending numeric count and the key buffers a remapper
// matches against. It implements remap.Host: replayed keys re-enter
// HandleKey, line commands run through a small interpreter (":w",
// ":nohl", ":set", ":echo"), and other commands dispatch through a
// Registry.
//
//	s := session.New(cfg.Remaps, session.WithLeader(cfg.Leader))
//	err := s.HandleKeys(ctx, "i", "h", "i", "j", "j")
//	// s.Text() == "hi", s.Mode() == mode.Normal
package session
