package liveview

// Action names a row operation the host can offer in its UI.
type Action string

// Row actions, in menu order.
const (
	ActionHook              Action = "Hook"
	ActionUnhook            Action = "Unhook"
	ActionJumpToFirst       Action = "Jump to first"
	ActionJumpToLast        Action = "Jump to last"
	ActionJumpToMin         Action = "Jump to min"
	ActionJumpToMax         Action = "Jump to max"
	ActionEnableFrameTrack  Action = "Enable frame track"
	ActionDisableFrameTrack Action = "Disable frame track"
)

// AvailableActions returns the actions applicable to one visible row given
// hook state, frame-track state, and whether the capture is connected. Jump
// actions need at least one recorded call to make sense.
func (v *View) AvailableActions(visibleIndex int) []Action {
	v.mu.Lock()
	fn := v.rowDescriptor(visibleIndex)
	v.mu.Unlock()

	capturing := v.state.IsCapturing()
	st := v.session.GetStatsOrDefault(fn.Address)

	var actions []Action
	if capturing {
		if v.hooks.IsSelected(fn) {
			actions = append(actions, ActionUnhook)
		} else {
			actions = append(actions, ActionHook)
		}
	}

	if st.Count > 0 {
		actions = append(actions,
			ActionJumpToFirst, ActionJumpToLast, ActionJumpToMin, ActionJumpToMax)
	}

	// Outside a connected capture the frame-track toggle reflects what the
	// recorded session data holds rather than live controller state.
	trackEnabled := v.frameTracks.IsFrameTrackEnabled(fn)
	if !capturing {
		trackEnabled = v.frameTracks.HasFrameTrackInSessionData(fn)
	}
	if trackEnabled {
		actions = append(actions, ActionDisableFrameTrack)
	} else {
		actions = append(actions, ActionEnableFrameTrack)
	}

	return actions
}
