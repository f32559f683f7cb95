package editor

import "errors"

// Notification is a message captured by Fake.
type Notification struct {
	Msg   string
	Level Level
}

// Fake is an in-memory Host for tests of the packages built on Host.
type Fake struct {
	// Views maps open views to their paths.
	Views   map[View]string
	Current View
	// Notifications collects everything passed to Notify.
	Notifications []Notification
	// Opened records paths passed to OpenPath.
	Opened []string
	// Err, when set, is returned by every call that can fail.
	Err error

	next View
}

// NewFake returns an empty Fake with no open views.
func NewFake() *Fake {
	return &Fake{Views: make(map[View]string), next: 1}
}

// Open adds a view for path and makes it current.
func (f *Fake) Open(path string) View {
	if f.next == 0 {
		f.next = 1
	}
	v := f.next
	f.next++
	f.Views[v] = path
	f.Current = v
	return v
}

// FindOpenView implements Host.
func (f *Fake) FindOpenView(path string) (View, bool, error) {
	if f.Err != nil {
		return 0, false, f.Err
	}
	for v, p := range f.Views {
		if SamePath(p, path) {
			return v, true, nil
		}
	}
	return 0, false, nil
}

// Activate implements Host.
func (f *Fake) Activate(v View) error {
	if f.Err != nil {
		return f.Err
	}
	if _, ok := f.Views[v]; !ok {
		return errors.New("no such view")
	}
	f.Current = v
	return nil
}

// OpenPath implements Host.
func (f *Fake) OpenPath(path string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Opened = append(f.Opened, path)
	f.Open(path)
	return nil
}

// CurrentPath implements Host.
func (f *Fake) CurrentPath() (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.Views[f.Current], nil
}

// Notify implements Host.
func (f *Fake) Notify(msg string, level Level) error {
	f.Notifications = append(f.Notifications, Notification{Msg: msg, Level: level})
	return nil
}

// LastNotification returns the most recent notification.
func (f *Fake) LastNotification() (Notification, bool) {
	if len(f.Notifications) == 0 {
		return Notification{}, false
	}
	return f.Notifications[len(f.Notifications)-1], true
}
