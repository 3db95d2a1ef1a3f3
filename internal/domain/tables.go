package domain

var Tables = []interface{}{
	// System
	&SysOpr{},
	// Devices
	&NetDevice{},
	&DeviceSystemMetric{},
	&DeviceInterfaceMetric{},
	&DeviceOnlineUser{},
	// Radius
	&RadiusProfile{},
	&RadiusUser{},
	&RadiusActivityLog{},
}
