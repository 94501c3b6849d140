package js

type locker interface {
	Lock()
	Unlock()
}
