package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"

	"github.com/pampup/pamp/internal/pamp"
)

type loginMode int

const (
	modePassword loginMode = iota
	modeGoogle
	modeRegister
	loginModeCount
)

func (l loginMode) String() string {
	switch l {
	case modeGoogle:
		return "Google"
	case modeRegister:
		return "Create account"
	default:
		return "Log in"
	}
}

// Input slots shared by the three forms.
const (
	inUsername = iota
	inEmail
	inPassword
	inPassword2
	inIDToken
	inputCount
)

type loginState struct {
	mode   loginMode
	inputs [inputCount]textinput.Model
	focus  int // position in fields()
	busy   bool
	err    string
	notice string
}

func newLoginState() loginState {
	var l loginState
	placeholders := [inputCount]string{
		inUsername:  "username",
		inEmail:     "you@example.com",
		inPassword:  "password",
		inPassword2: "repeat password",
		inIDToken:   "Google ID token (from the sign-in page)",
	}
	for i := range l.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Width = 40
		if i == inPassword || i == inPassword2 {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		l.inputs[i] = ti
	}
	l.focusInput(0)
	return l
}

// fields lists the input slots of the current form in tab order.
func (l loginState) fields() []int {
	switch l.mode {
	case modeGoogle:
		return []int{inIDToken}
	case modeRegister:
		return []int{inUsername, inEmail, inPassword, inPassword2}
	default:
		return []int{inUsername, inPassword}
	}
}

func (l *loginState) focusInput(pos int) {
	fields := l.fields()
	l.focus = (pos + len(fields)) % len(fields)
	for i := range l.inputs {
		l.inputs[i].Blur()
	}
	l.inputs[fields[l.focus]].Focus()
}

func (l loginState) value(slot int) string {
	return strings.TrimSpace(l.inputs[slot].Value())
}

// registerForm mirrors the server's registration rules so obvious mistakes
// are caught before a round trip.
type registerForm struct {
	Username  string `validate:"required,max=150"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
	Password2 string `validate:"required,eqfield=Password"`
}

var formValidate = validator.New()

func validateRegistration(reg pamp.Registration) error {
	err := formValidate.Struct(registerForm(reg))
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch {
		case fe.Tag() == "required":
			msgs = append(msgs, strings.ToLower(fe.Field())+" is required")
		case fe.Tag() == "email":
			msgs = append(msgs, "email is not valid")
		case fe.Tag() == "min":
			msgs = append(msgs, fmt.Sprintf("password needs at least %s characters", fe.Param()))
		case fe.Tag() == "eqfield":
			msgs = append(msgs, "passwords do not match")
		default:
			msgs = append(msgs, strings.ToLower(fe.Field())+" is too long")
		}
	}
	return errors.New(strings.Join(msgs, ", "))
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &m.login
	if l.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.SwitchForm):
		l.mode = (l.mode + 1) % loginModeCount
		l.err = ""
		l.focusInput(0)
		return m, nil
	case key.Matches(msg, m.keys.Tab), msg.String() == "down":
		l.focusInput(l.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab), msg.String() == "up":
		l.focusInput(l.focus - 1)
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		l.err = ""
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if l.focus < len(l.fields())-1 {
			l.focusInput(l.focus + 1)
			return m, nil
		}
		return m.submitLogin()
	}

	var cmd tea.Cmd
	slot := l.fields()[l.focus]
	l.inputs[slot], cmd = l.inputs[slot].Update(msg)
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	l := &m.login
	l.err = ""
	l.notice = ""

	switch l.mode {
	case modeGoogle:
		token := l.value(inIDToken)
		if token == "" {
			l.err = "paste the ID token first"
			return m, nil
		}
		l.busy = true
		return m, googleLoginCmd(m.ctx, m.api, m.session, token)
	case modeRegister:
		reg := pamp.Registration{
			Username:  l.value(inUsername),
			Email:     l.value(inEmail),
			Password:  l.inputs[inPassword].Value(),
			Password2: l.inputs[inPassword2].Value(),
		}
		if err := validateRegistration(reg); err != nil {
			l.err = err.Error()
			return m, nil
		}
		l.busy = true
		return m, registerCmd(m.ctx, m.api, reg)
	default:
		creds := pamp.Credentials{Username: l.value(inUsername), Password: l.inputs[inPassword].Value()}
		if creds.Username == "" || creds.Password == "" {
			l.err = "username and password are required"
			return m, nil
		}
		l.busy = true
		return m, loginCmd(m.ctx, m.api, m.session, creds)
	}
}

func (m Model) renderLogin() string {
	styles := m.theme.Styles()
	l := m.login
	var b strings.Builder

	b.WriteString(styles.Logo.Render("pamp"))
	b.WriteString(styles.MutedText.Render("  training log"))
	b.WriteString("\n\n")

	for mode := loginMode(0); mode < loginModeCount; mode++ {
		tab := " " + mode.String() + " "
		if mode == l.mode {
			b.WriteString(styles.Selected.Render(tab))
		} else {
			b.WriteString(styles.FaintText.Render(tab))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	labels := [inputCount]string{"Username", "Email", "Password", "Repeat", "ID token"}
	for pos, slot := range l.fields() {
		label := padRight(labels[slot], 10)
		if pos == l.focus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString(l.inputs[slot].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case l.busy:
		b.WriteString(styles.WarningText.Render("Contacting server…"))
	case l.err != "":
		b.WriteString(styles.DangerText.Render(l.err))
	case l.notice != "":
		b.WriteString(styles.SuccessText.Render(l.notice))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.Key.Render("enter") + styles.MutedText.Render(" submit  ") +
		styles.Key.Render("tab") + styles.MutedText.Render(" next  ") +
		styles.Key.Render("ctrl+n") + styles.MutedText.Render(" switch form  ") +
		styles.Key.Render("ctrl+c") + styles.MutedText.Render(" quit"))

	return placeModal(m.theme, b.String(), 60, m.width, m.height-1)
}
