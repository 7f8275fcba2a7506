package catalog

import "github.com/procgo-dev/procgo/internal/registry"

// DefaultDirectory returns the built-in supplier dataset used when no
// external data file is configured. Five suppliers across three regions
// with overlapping drone, electronics, and power catalogs.
func DefaultDirectory() *Directory {
	return NewDirectory(
		Supplier{
			ID: "techparts-global", Name: "TechParts Global",
			Region: "EU", Country: "Germany", Currency: "EUR",
			AvgLeadTimeDays: 4, MaxDiscountPct: 10,
			Certifications: []registry.Certification{
				{Authority: "TUV Rheinland", Certification: "CE", CertID: "CE-2023-0441"},
				{Authority: "SGS", Certification: "ISO9001", CertID: "ISO-9001-8812"},
			},
			Trust: registry.TrustProfile{Verified: true, ReputationScore: 0.92, TotalTransactions: 247, DisputeRate: 0.02},
			Catalog: NewCatalog(
				Part{Key: "brushless_motor", Name: "2207 Brushless Motor 1800KV", UnitPrice: 45.0, Stock: 320, LeadTimeDays: 3, Category: "propulsion", Specs: "1800KV, 3-6S LiPo", WeightKg: 0.05},
				Part{Key: "esc", Name: "45A 4-in-1 ESC BLHeli_32", UnitPrice: 62.0, Stock: 180, LeadTimeDays: 3, Category: "propulsion", Specs: "45A continuous, DShot1200", WeightKg: 0.03},
				Part{Key: "flight_controller", Name: "F7 Flight Controller", UnitPrice: 58.0, Stock: 95, LeadTimeDays: 4, Category: "electronics", Specs: "STM32F722, dual gyro", WeightKg: 0.02},
				Part{Key: "carbon_frame", Name: "5-inch Carbon Frame", UnitPrice: 74.0, Stock: 60, LeadTimeDays: 5, Category: "frame", Specs: "T700 carbon, 5mm arms", WeightKg: 0.15},
				Part{Key: "gps_module", Name: "M10 GPS Module", UnitPrice: 29.5, Stock: 140, LeadTimeDays: 4, Category: "electronics", Specs: "10Hz, GLONASS+Galileo", WeightKg: 0.01},
			),
		},
		Supplier{
			ID: "shenzhen-circuits", Name: "Shenzhen Circuits Co",
			Region: "Asia", Country: "China", Currency: "EUR",
			AvgLeadTimeDays: 9, MaxDiscountPct: 25,
			Certifications: []registry.Certification{
				{Authority: "CNAS", Certification: "ISO9001", CertID: "ISO-9001-CN-5520"},
			},
			Trust: registry.TrustProfile{Verified: true, ReputationScore: 0.78, TotalTransactions: 812, DisputeRate: 0.11},
			Catalog: NewCatalog(
				Part{Key: "brushless_motor", Name: "2207 Brushless Motor 1750KV", UnitPrice: 22.0, Stock: 2400, LeadTimeDays: 7, Category: "propulsion", Specs: "1750KV, 3-6S LiPo", WeightKg: 0.05},
				Part{Key: "esc", Name: "40A 4-in-1 ESC", UnitPrice: 38.0, Stock: 900, LeadTimeDays: 7, Category: "propulsion", Specs: "40A continuous", WeightKg: 0.03},
				Part{Key: "flight_controller", Name: "F4 Flight Controller", UnitPrice: 31.0, Stock: 650, LeadTimeDays: 8, Category: "electronics", Specs: "STM32F405", WeightKg: 0.02},
				Part{Key: "battery", Name: "6S 1300mAh LiPo", UnitPrice: 27.0, Stock: 1100, LeadTimeDays: 8, Category: "power", Specs: "95Wh, 1300mAh, 120C", WeightKg: 0.2},
				Part{Key: "propeller_set", Name: "5.1in Tri-Blade Props (4x)", UnitPrice: 3.8, Stock: 5000, LeadTimeDays: 7, Category: "propulsion", Specs: "5.1x4.9x3", WeightKg: 0.01},
				Part{Key: "esp32_module", Name: "ESP32-WROOM DevKit", UnitPrice: 6.5, Stock: 3200, LeadTimeDays: 7, Category: "microcontrollers", Specs: "WiFi+BLE, 240MHz", WeightKg: 0.01},
			),
		},
		Supplier{
			ID: "fpv-warehouse", Name: "FPV Warehouse",
			Region: "EU", Country: "Netherlands", Currency: "EUR",
			AvgLeadTimeDays: 2, MaxDiscountPct: 8,
			Certifications: []registry.Certification{
				{Authority: "Kiwa", Certification: "CE", CertID: "CE-2024-1187"},
			},
			Trust: registry.TrustProfile{Verified: true, ReputationScore: 0.88, TotalTransactions: 96, DisputeRate: 0.04},
			Catalog: NewCatalog(
				Part{Key: "vtx", Name: "5.8GHz Video Transmitter 25mW", UnitPrice: 34.0, Stock: 210, LeadTimeDays: 2, Category: "fpv", Specs: "25mW locked, SmartAudio", WeightKg: 0.03},
				Part{Key: "camera", Name: "FPV Camera 1200TVL", UnitPrice: 41.0, Stock: 175, LeadTimeDays: 2, Category: "fpv", Specs: "1200TVL, 4:3", WeightKg: 0.03},
				Part{Key: "antenna", Name: "RHCP Antenna Pair", UnitPrice: 12.0, Stock: 400, LeadTimeDays: 2, Category: "fpv", Specs: "5.8GHz RHCP", WeightKg: 0.01},
				Part{Key: "receiver", Name: "ELRS 2.4GHz Receiver", UnitPrice: 16.5, Stock: 260, LeadTimeDays: 2, Category: "electronics", Specs: "ExpressLRS 3.x", WeightKg: 0.01},
			),
		},
		Supplier{
			ID: "voltbase-energy", Name: "VoltBase Energy",
			Region: "US", Country: "United States", Currency: "EUR",
			AvgLeadTimeDays: 6, MaxDiscountPct: 15,
			Certifications: []registry.Certification{
				{Authority: "UL", Certification: "UN38.3", CertID: "UN383-2024-77"},
			},
			Trust: registry.TrustProfile{Verified: true, ReputationScore: 0.83, TotalTransactions: 154, DisputeRate: 0.06},
			Catalog: NewCatalog(
				Part{Key: "battery", Name: "6S 1400mAh LiPo Graphene", UnitPrice: 39.0, Stock: 520, LeadTimeDays: 5, Category: "power", Specs: "98Wh, 1400mAh, 100C", WeightKg: 0.21},
				Part{Key: "lifepo4_battery_100ah", Name: "LiFePO4 Battery 100Ah", UnitPrice: 310.0, Stock: 45, LeadTimeDays: 6, Category: "solar", Specs: "12.8V 100Ah", WeightKg: 11.5},
				Part{Key: "solar_panel_100w", Name: "Solar Panel 100W Mono", UnitPrice: 88.0, Stock: 120, LeadTimeDays: 6, Category: "solar", Specs: "100W monocrystalline", WeightKg: 7.2},
				Part{Key: "mppt_controller_60a", Name: "MPPT Charge Controller 60A", UnitPrice: 145.0, Stock: 75, LeadTimeDays: 6, Category: "solar", Specs: "60A, 12/24/48V", WeightKg: 2.4},
				Part{Key: "dc_motor_12v", Name: "DC Motor 12V 300RPM", UnitPrice: 14.0, Stock: 380, LeadTimeDays: 5, Category: "motors", Specs: "12V, 300RPM geared", WeightKg: 0.3},
			),
		},
		Supplier{
			ID: "nordic-sensortech", Name: "Nordic SensorTech",
			Region: "EU", Country: "Sweden", Currency: "EUR",
			AvgLeadTimeDays: 3, MaxDiscountPct: 12,
			Certifications: []registry.Certification{
				{Authority: "Intertek", Certification: "CE", CertID: "CE-2023-9001"},
			},
			Trust: registry.TrustProfile{Verified: false, ReputationScore: 0.71, TotalTransactions: 41, DisputeRate: 0.08},
			Catalog: NewCatalog(
				Part{Key: "temperature_sensor", Name: "Digital Temperature Sensor", UnitPrice: 4.2, Stock: 5500, LeadTimeDays: 2, Category: "sensors", Specs: "-40..125C, I2C", WeightKg: 0.005},
				Part{Key: "humidity_sensor", Name: "Humidity Sensor SHT4x", UnitPrice: 5.1, Stock: 4200, LeadTimeDays: 2, Category: "sensors", Specs: "0-100%RH, I2C", WeightKg: 0.005},
				Part{Key: "pressure_sensor", Name: "Barometric Pressure Sensor", UnitPrice: 6.8, Stock: 2600, LeadTimeDays: 3, Category: "sensors", Specs: "300-1250hPa", WeightKg: 0.005},
				Part{Key: "oled_display", Name: "0.96in OLED Display", UnitPrice: 7.4, Stock: 1800, LeadTimeDays: 3, Category: "electronics", Specs: "128x64, SSD1306", WeightKg: 0.01},
				Part{Key: "arduino_nano", Name: "Nano Compatible Board", UnitPrice: 9.9, Stock: 2100, LeadTimeDays: 3, Category: "microcontrollers", Specs: "ATmega328P", WeightKg: 0.01},
			),
		},
	)
}

// PartVocabulary returns the distinct part keys across all suppliers in a
// directory, in directory order. Fed to the BOM generator so it proposes
// parts that actually exist.
func (d *Directory) PartVocabulary() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range d.All() {
		for _, p := range s.Catalog.Parts() {
			if !seen[p.Key] {
				seen[p.Key] = true
				out = append(out, p.Key)
			}
		}
	}
	return out
}

// CategoryVocabulary returns the distinct categories across all suppliers.
func (d *Directory) CategoryVocabulary() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range d.All() {
		for _, c := range s.Catalog.Categories() {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}
