package trail

// ManageUint registers an unsigned integer resource.
func (m *Manager) ManageUint(initial uint) Handle[uint] {
	return Manage(m, initial)
}

// GetUint returns the current value of h.
func (m *Manager) GetUint(h Handle[uint]) (uint, error) {
	return Get(m, h)
}

// SetUint stores value in h and returns it.
func (m *Manager) SetUint(h Handle[uint], value uint) (uint, error) {
	return Set(m, h, value)
}

// ManageInt registers a signed integer resource.
func (m *Manager) ManageInt(initial int) Handle[int] {
	return Manage(m, initial)
}

// GetInt returns the current value of h.
func (m *Manager) GetInt(h Handle[int]) (int, error) {
	return Get(m, h)
}

// SetInt stores value in h and returns it.
func (m *Manager) SetInt(h Handle[int], value int) (int, error) {
	return Set(m, h, value)
}

// ManageFloat32 registers a single-precision float resource.
func (m *Manager) ManageFloat32(initial float32) Handle[float32] {
	return Manage(m, initial)
}

// GetFloat32 returns the current value of h.
func (m *Manager) GetFloat32(h Handle[float32]) (float32, error) {
	return Get(m, h)
}

// SetFloat32 stores value in h and returns it.
func (m *Manager) SetFloat32(h Handle[float32], value float32) (float32, error) {
	return Set(m, h, value)
}

// ManageBool registers a boolean resource.
func (m *Manager) ManageBool(initial bool) Handle[bool] {
	return Manage(m, initial)
}

// GetBool returns the current value of h.
func (m *Manager) GetBool(h Handle[bool]) (bool, error) {
	return Get(m, h)
}

// SetBool stores value in h and returns it.
func (m *Manager) SetBool(h Handle[bool], value bool) (bool, error) {
	return Set(m, h, value)
}

// FlipBool negates h and returns the new value.
func (m *Manager) FlipBool(h Handle[bool]) (bool, error) {
	return Flip(m, h)
}
