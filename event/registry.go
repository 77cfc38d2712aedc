package event

import "strings"

var (
	nameToType = make(map[string]EventType)
	typeToName = make(map[EventType]string)
)

func init() {
	RegisterType("EventRigExplored", EventRigExplored)
	RegisterType("EventRigBuilt", EventRigBuilt)
	RegisterType("EventLaunchCommand", EventLaunchCommand)
	RegisterType("EventLauncherStateChanged", EventLauncherStateChanged)
	RegisterType("EventProjectileSpawnRequest", EventProjectileSpawnRequest)
	RegisterType("EventProjectileSpawned", EventProjectileSpawned)
	RegisterType("EventProjectileReleased", EventProjectileReleased)
	RegisterType("EventProjectileDestroyed", EventProjectileDestroyed)
	RegisterType("EventCollisionEnded", EventCollisionEnded)
	RegisterType("EventTargetAssigned", EventTargetAssigned)
	RegisterType("EventTargetIneligible", EventTargetIneligible)
	RegisterType("EventTurretFired", EventTurretFired)
	RegisterType("EventGamePhaseChanged", EventGamePhaseChanged)
	RegisterType("EventSystemCommand", EventSystemCommand)
}

// RegisterType maps a string name to an EventType
func RegisterType(name string, et EventType) {
	nameToType[name] = et
	typeToName[et] = name
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	// Special case for FSM "Tick"
	if strings.EqualFold(name, "Tick") {
		return EventTick, true
	}
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the string name for an EventType
func GetEventName(et EventType) string {
	if et == EventTick {
		return "Tick"
	}
	return typeToName[et]
}

// String implements fmt.Stringer for log output
func (et EventType) String() string {
	if name := GetEventName(et); name != "" {
		return name
	}
	return "EventUnknown"
}
