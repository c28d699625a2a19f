// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package view embeds shader output in a host UI.
//
// A host toolkit drives a render surface through the three calls of
// Adapter: Create when the surface appears, Update when it should be
// redrawn at a size, and Resize when only the size changed. View implements
// Adapter on top of a shaderview.Resolver, binding the vertex and fragment
// entry points as their resolutions complete and announcing each change on
// Redraws.
//
//	v, err := view.New(resolver)
//	if err != nil {
//	    return err
//	}
//	defer v.Close()
//
//	err = v.Create(view.Config{
//	    VertexEntry:   "vertex_main",
//	    FragmentEntry: "fragment_main",
//	    Size:          view.Size{Width: 640, Height: 480},
//	})
//	for range v.Redraws() {
//	    v.Draw()
//	}
//
// Presentation goes through a Backend chosen from a registry. The built-in
// "image" backend draws into memory and serves headless hosts and tests.
package view
