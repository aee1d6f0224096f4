package models

type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewHome
	ViewCreate
	ViewTake
	ViewReport
)

var viewNames = [...]string{
	ViewLogin:    "login",
	ViewRegister: "register",
	ViewHome:     "home",
	ViewCreate:   "create",
	ViewTake:     "take",
	ViewReport:   "report",
}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// Authenticated reports whether the view belongs to the signed-in part of the app.
func (v View) Authenticated() bool {
	switch v {
	case ViewHome, ViewCreate, ViewTake, ViewReport:
		return true
	default:
		return false
	}
}

// AdminOnly views are never entered by a non-admin user.
func (v View) AdminOnly() bool {
	return v == ViewCreate || v == ViewReport
}
