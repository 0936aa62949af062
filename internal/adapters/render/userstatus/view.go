package userstatus

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/H0sin/mikroman/internal/application"
)

type RenderOptions struct {
	// ShowAttributes includes the decoded RADIUS attributes per user.
	ShowAttributes bool
}

func renderView(statuses []application.UserStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("User Manager Accounts"),
		s.header.Render(fmt.Sprintf("users: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No users found."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderUser(status, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderUser(status application.UserStatus, opts RenderOptions, s styles) string {
	parts := []string{
		s.user.Render(userTitle(status, s)),
		s.detail.Render(fmt.Sprintf("shared users: %d", status.User.SharedUsers)),
	}

	if opts.ShowAttributes {
		for _, line := range attributeLines(status, s) {
			parts = append(parts, line)
		}
	}

	for _, line := range planLines(status, s) {
		parts = append(parts, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func userTitle(status application.UserStatus, s styles) string {
	title := status.User.Name
	if status.User.Group != "" {
		title = fmt.Sprintf("%s (%s)", title, status.User.Group)
	}
	if status.User.Disabled {
		title += " " + s.warning.Render("[disabled]")
	}
	return title
}

func attributeLines(status application.UserStatus, s styles) []string {
	lines := make([]string, 0, 3)
	if status.Attributes.RateLimit != "" {
		lines = append(lines, s.detail.Render("rate limit: "+status.Attributes.RateLimit))
	}
	if status.Attributes.StaticIP != "" {
		lines = append(lines, s.detail.Render("static ip: "+status.Attributes.StaticIP))
	}
	if status.Attributes.SessionTimeout != nil {
		lines = append(lines, s.detail.Render(fmt.Sprintf("session timeout: %ds", *status.Attributes.SessionTimeout)))
	}

	if len(lines) == 0 {
		return []string{s.empty.Render("no attributes")}
	}

	return lines
}

func planLines(status application.UserStatus, s styles) []string {
	if len(status.Plans) == 0 {
		return []string{s.empty.Render("no plans assigned")}
	}

	lines := make([]string, 0, len(status.Plans))
	for _, plan := range status.Plans {
		label := s.planKey.Render(fmt.Sprintf("plan %s:", plan.Profile))
		state := stateStyle(plan.State, s).Render(stateLabel(plan.State))

		line := lipgloss.JoinHorizontal(lipgloss.Top, label, " ", state)
		if plan.EndTime != "" && !strings.EqualFold(plan.EndTime, "unlimited") {
			line += " " + s.planOff.Render(fmt.Sprintf("(ends %s)", plan.EndTime))
		}

		lines = append(lines, line)
	}

	return lines
}

func stateLabel(state string) string {
	if state == "" {
		return "unknown"
	}
	return state
}

func stateStyle(state string, s styles) lipgloss.Style {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "running", "running-active", "active", "used":
		return s.planOK
	case "waiting":
		return s.planOff
	default:
		return s.warning
	}
}
