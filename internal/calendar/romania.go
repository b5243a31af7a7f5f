package calendar

// RomanianHolidays returns the built-in legal holiday tables.
// Orthodox Easter and Pentecost move every year; add further years with a
// holiday file rather than editing this list.
func RomanianHolidays() []HolidayTable {
	return []HolidayTable{
		{
			Year: 2025,
			Days: map[string]string{
				"2025-01-01": "Anul Nou",
				"2025-01-02": "A doua zi de Anul Nou",
				"2025-01-06": "Boboteaza",
				"2025-01-07": "Sfântul Ioan Botezătorul",
				"2025-01-24": "Ziua Unirii Principatelor Române",
				"2025-04-18": "Vinerea Mare",
				"2025-04-20": "Paștele",
				"2025-04-21": "A doua zi de Paște",
				"2025-05-01": "Ziua Muncii",
				"2025-06-01": "Ziua Copilului",
				"2025-06-08": "Rusaliile",
				"2025-06-09": "A doua zi de Rusalii",
				"2025-08-15": "Adormirea Maicii Domnului",
				"2025-11-30": "Sfântul Andrei",
				"2025-12-01": "Ziua Națională a României",
				"2025-12-25": "Crăciunul",
				"2025-12-26": "A doua zi de Crăciun",
			},
		},
		{
			Year: 2026,
			Days: map[string]string{
				"2026-01-01": "Anul Nou",
				"2026-01-02": "A doua zi de Anul Nou",
				"2026-01-06": "Boboteaza",
				"2026-01-07": "Sfântul Ioan Botezătorul",
				"2026-01-24": "Ziua Unirii Principatelor Române",
				"2026-04-10": "Vinerea Mare",
				"2026-04-12": "Paștele",
				"2026-04-13": "A doua zi de Paște",
				"2026-05-01": "Ziua Muncii",
				"2026-05-31": "Rusaliile",
				"2026-06-01": "Ziua Copilului / A doua zi de Rusalii",
				"2026-08-15": "Adormirea Maicii Domnului",
				"2026-11-30": "Sfântul Andrei",
				"2026-12-01": "Ziua Națională a României",
				"2026-12-25": "Crăciunul",
				"2026-12-26": "A doua zi de Crăciun",
			},
		},
	}
}
