// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/device"
	"github.com/gogpu/shaderview/view"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(28)

	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98")).
			Width(10)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func renderHeader(label string, dev *device.Device) string {
	info := dev.Info()
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(label),
		dimStyle.Render(fmt.Sprintf(" %s (%s)", info.Name, info.Backend)),
	)
}

func renderOutcomes(outs []shaderview.Outcome) string {
	var b strings.Builder
	for i, o := range outs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(renderOutcome(o))
	}
	return b.String()
}

func renderOutcome(o shaderview.Outcome) string {
	if !o.OK() {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			nameStyle.Render(o.Symbol()),
			stageStyle.Render("-"),
			errorStyle.Render(o.Err().Error()),
		)
	}
	fn := o.Function()
	detail := "ok"
	if ws := fn.WorkgroupSize(); ws != [3]uint32{} {
		detail = fmt.Sprintf("ok workgroup=%dx%dx%d", ws[0], ws[1], ws[2])
	}
	if name := fn.MSLName(); name != "" {
		detail += " msl=" + name
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		nameStyle.Render(fn.Name()),
		stageStyle.Render(fn.Stage().String()),
		okStyle.Render(detail),
	)
}

func renderView(v *view.View) string {
	status := okStyle.Render("ready")
	if !v.Ready() {
		status = errorStyle.Render("fallback")
	}
	cfg := v.Config()
	return fmt.Sprintf("%s %s %s/%s %s",
		titleStyle.Render("view"),
		dimStyle.Render(v.Size().String()),
		cfg.VertexEntry, cfg.FragmentEntry,
		status,
	)
}
