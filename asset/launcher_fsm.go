package asset

// DefaultLauncherFSMConfig is the launch cycle shared by every launcher
// Guards and actions are registered by the launcher system
const DefaultLauncherFSMConfig = `
initial: Idle

states:
  # Reload timer, expiry or a manual command starts winching
  Idle:
    on_enter:
      - {action: ArmReload}
    transitions:
      - {trigger: Tick, target: Tension, guard: ReloadElapsed}
      - {trigger: EventLaunchCommand, target: Tension, guard: CommandTargetsLauncher}

  # Link from release end to bar, tightened each tick until the arm is down
  Tension:
    on_enter:
      - {action: CreateLink}
      - {action: SetPivotDamping, args: tension}
    on_update:
      - {action: TightenLink}
    on_exit:
      - {action: SetPivotDamping, args: rest}
    transitions:
      - {trigger: Tick, target: Arming, guard: ArmLowered}

  # Ball drops onto the release end; engagement is the end of that contact
  Arming:
    on_enter:
      - {action: RequestBall}
    on_update:
      - {action: RetryBall}
    transitions:
      - {trigger: EventCollisionEnded, target: Loose, guard: BallEngaged}

  # Link now couples release end to ball; unhook at the top of the swing
  Loose:
    on_enter:
      - {action: CoupleBall}
    on_exit:
      - {action: ReleaseBall}
    transitions:
      - {trigger: Tick, target: Idle, guard: SlingVertical}
`
