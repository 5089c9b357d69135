package contact

import "strings"

// City maps a city name, as written in an address, to its website subpath.
type City struct {
	Name string
	Code string
}

// Cities is the ordered lookup table for website subpaths.
// Moscow is intentionally absent so Moscow offices get the bare root domain.
var Cities = []City{
	{"Архангельск", "arkhangelsk"},
	{"Астрахань", "astrakhan"},
	{"Балаково", "balakovo"},
	{"Благовещенск", "blagoveshensk"},
	{"Владивосток", "vladivostok"},
	{"Владимир", "vladimir"},
	{"Волгоград", "volgograd"},
	{"Волжский", "volzhsky"},
	{"Воронеж", "voronej"},
	{"Екатеринбург", "ekaterinburg"},
	{"Ижевск", "ijevsk"},
	{"Иркутск", "irkutsk"},
	{"Казань", "kazan"},
	{"Калуга", "kaluga"},
	{"Киров", "kirov"},
	{"Кострома", "kostroma"},
	{"Краснодар", "krasnodar"},
	{"Красноярск", "krasnoyarsk"},
	{"Липецк", "lipetsk"},
	{"Миасс", "miass"},
	{"Мурманск", "murmansk"},
	{"Набережные Челны", "chelny"},
	{"Нижневартовск", "nizhnevartovsk"},
	{"Нижний Новгород", "nnovgorod"},
	{"Новокузнецк", "novokuzneck"},
	{"Новороссийск", "novorossiysk"},
	{"Новосибирск", "novosibirsk"},
	{"Омск", "omsk"},
	{"Оренбург", "orenburg"},
	{"Орёл", "orel"},
	{"Пермь", "perm"},
	{"Петрозаводск", "petrozavodsk"},
	{"Ростов-на-Дону", "rostov"},
	{"Рязань", "ryazan"},
	{"Самара", "samara"},
	{"Санкт-Петербург", "peterburg"},
	{"Саратов", "saratov"},
	{"Смоленск", "smolensk"},
	{"Сочи", "sochi"},
	{"Ставрополь", "stavropol"},
	{"Сургут", "surgut"},
	{"Сыктывкар", "syktyvkar"},
	{"Тверь", "tver"},
	{"Тольятти", "togliatti"},
	{"Тула", "tula"},
	{"Тюмень", "tumen"},
	{"Ульяновск", "ulyanovsk"},
	{"Уфа", "ufa"},
	{"Челябинск", "chelyabinsk"},
	{"Череповец", "cherepovets"},
	{"Ярославль", "yaroslavl"},
}

// CityCode returns the code of the first city in table whose name occurs in
// any of texts, case-insensitively. Texts are searched in order, so an
// address match beats a duty match. Returns "" if nothing matches.
func CityCode(table []City, texts ...string) string {
	for _, text := range texts {
		if text == "" {
			continue
		}
		lower := strings.ToLower(text)
		for _, city := range table {
			if strings.Contains(lower, strings.ToLower(city.Name)) {
				return city.Code
			}
		}
	}
	return ""
}
