package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"moviedeck-cli/model"
)

type formKind int

const (
	formLogin formKind = iota
	formRegister
)

type formField struct {
	key   string
	label string
	input textinput.Model
}

type authForm struct {
	kind   formKind
	fields []formField
	focus  int
	errors map[string]string
}

func newField(key string, label string, placeholder string, secret bool) formField {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 128
	input.Prompt = "› "
	if secret {
		input.EchoMode = textinput.EchoPassword
		input.EchoCharacter = '•'
	}
	return formField{key: key, label: label, input: input}
}

func newLoginForm() authForm {
	f := authForm{
		kind: formLogin,
		fields: []formField{
			newField("username", "Username", "emilys", false),
			newField("password", "Password", "password", true),
		},
	}
	f.fields[0].input.Focus()
	return f
}

func newRegisterForm() authForm {
	f := authForm{
		kind: formRegister,
		fields: []formField{
			newField("username", "Username", "username", false),
			newField("email", "Email", "you@example.com", false),
			newField("password", "Password", "at least 6 characters", true),
			newField("confirmPassword", "Confirm", "repeat password", true),
		},
	}
	f.fields[0].input.Focus()
	return f
}

func (f authForm) value(key string) string {
	for _, field := range f.fields {
		if field.key == key {
			return field.input.Value()
		}
	}
	return ""
}

func (f *authForm) setValue(key string, value string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].input.SetValue(value)
		}
	}
}

func (f *authForm) moveFocus(delta int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

func (f *authForm) onLastField() bool {
	return f.focus == len(f.fields)-1
}

func (f *authForm) update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f authForm) loginCredentials() model.LoginCredentials {
	return model.LoginCredentials{
		Username: strings.TrimSpace(f.value("username")),
		Password: strings.TrimSpace(f.value("password")),
	}
}

func (f authForm) registerCredentials() model.RegisterCredentials {
	return model.RegisterCredentials{
		Username:        strings.TrimSpace(f.value("username")),
		Email:           strings.TrimSpace(f.value("email")),
		Password:        f.value("password"),
		ConfirmPassword: f.value("confirmPassword"),
	}
}

// validate stores field problems and reports whether the form can be submitted.
func (f *authForm) validate() bool {
	if f.kind == formRegister {
		f.errors = f.registerCredentials().Validate()
	} else {
		f.errors = f.loginCredentials().Validate()
	}
	return len(f.errors) == 0
}

func (f authForm) title() string {
	if f.kind == formRegister {
		return "Create Account"
	}
	return "Welcome Back"
}

func (f authForm) view(s styles, banner string) string {
	lines := []string{s.title.Render(f.title()), ""}
	if banner != "" {
		lines = append(lines, s.errorText.Render(banner), "")
	}
	for _, field := range f.fields {
		lines = append(lines, s.label.Render(field.label)+field.input.View())
		if problem, ok := f.errors[field.key]; ok {
			lines = append(lines, s.errorText.Render(fmt.Sprintf("  %s %s", field.label, problem)))
		}
	}
	return s.panel.Render(strings.Join(lines, "\n"))
}
