package telegram

// Supported interface languages.
var langs = []string{"ru", "en", "ka"}

// Telegram language_code → interface language.
var langMap = map[string]string{
	"ru": "ru", "ru-RU": "ru",
	"en": "en", "en-US": "en", "en-GB": "en",
	"ka": "ka", "ka-GE": "ka",
}

func langFromCode(code string) string {
	if lang, ok := langMap[code]; ok {
		return lang
	}
	return "ru"
}

// T is the string table. Russian is the base language; missing translations
// fall back to it.
var T = map[string]map[string]string{
	"menu_title":   {"ru": "Главное меню", "en": "Main menu", "ka": "მთავარი მენიუ"},
	"btn_search":   {"ru": "🔎 Поиск", "en": "🔎 Search", "ka": "🔎 ძიება"},
	"btn_latest":   {"ru": "🆕 Новые", "en": "🆕 Latest", "ka": "🆕 ახალი"},
	"btn_language": {"ru": "🌐 Язык", "en": "🌐 Language", "ka": "🌐 ენა"},
	"btn_about":    {"ru": "ℹ️ О боте", "en": "ℹ️ About", "ka": "ℹ️ შესახებ"},
	"btn_fast":     {"ru": "🟢 Быстрый подбор", "en": "🟢 Quick picks", "ka": "🟢 სწრაფი არჩევანი"},
	"btn_favs":     {"ru": "❤️ Избранное", "en": "❤️ Favorites", "ka": "❤️ რჩეულები"},
	"btn_home":     {"ru": "🏠 Меню", "en": "🏠 Menu", "ka": "🏠 მენიუ"},
	"btn_back":     {"ru": "⬅️ Назад", "en": "⬅️ Back", "ka": "⬅️ უკან"},
	"btn_skip":     {"ru": "Пропустить", "en": "Skip", "ka": "გამოტოვება"},
	"btn_daily":    {"ru": "🕓 Посуточно", "en": "🕓 Daily rent", "ka": "🕓 დღიურად"},
	"btn_rent":     {"ru": "🏘 Аренда", "en": "🏘 Rent", "ka": "🏘 ქირავდება"},
	"btn_sale":     {"ru": "🏠 Продажа", "en": "🏠 Sale", "ka": "🏠 იყიდება"},
	"btn_like":     {"ru": "❤️ Нравится", "en": "❤️ Like", "ka": "❤️ მომეწონა"},
	"btn_dislike":  {"ru": "👎 Дизлайк", "en": "👎 Dislike", "ka": "👎 არ მომწონს"},
	"btn_fav_add":  {"ru": "⭐ В избранное", "en": "⭐ Favorite", "ka": "⭐ რჩეულებში"},
	"btn_fav_del":  {"ru": "⭐ Удалить", "en": "⭐ Remove", "ka": "⭐ წაშლა"},

	"btn_standard_ranges": {"ru": "📊 Стандартные диапазоны", "en": "📊 Standard ranges", "ka": "📊 სტანდარტული დიაპაზონები"},
	"btn_custom_price":    {"ru": "✏️ Свой диапазон", "en": "✏️ Custom range", "ka": "✏️ ჩემი დიაპაზონი"},

	"start": {
		"ru": "<b>LivePlace</b>\n👋 Привет! Я помогу подобрать <b>идеальную недвижимость в Грузии</b>.\n\n<b>Как это работает?</b>\n— 3–4 простых вопроса\n— Покажу лучшие варианты с фото и телефоном владельца\n— Просто посмотреть? Жми <b>🟢 Быстрый подбор</b>\n\nДобро пожаловать! 🏡",
		"en": "<b>LivePlace</b>\n👋 Hi! I'll help you find <b>your ideal home in Georgia</b>.\n\n<b>How it works:</b>\n— 3–4 quick questions\n— Top options with photos & owner phone\n— Just browsing? Tap <b>🟢 Quick picks</b>\n\nWelcome! 🏡",
		"ka": "<b>LivePlace</b>\n👋 გამარჯობა! ერთად ვიპოვოთ <b>იდეალური ბინა საქართველოში</b>.\n\n<b>როგორ მუშაობს:</b>\n— 3–4 მარტივი კითხვა\n— საუკეთესო ვარიანტები ფოტოებითა და მფლობელის ნომრით\n— უბრალოდ გადაათვალიერე? დააჭირე <b>🟢 სწრაფი არჩევანი</b>\n\nკეთილი იყოს თქვენი მობრძანება! 🏡",
	},
	"about": {
		"ru": "LivePlace: быстрый подбор недвижимости в Грузии. Фильтры, 10 фото, телефон владельца, избранное.",
		"en": "LivePlace: fast real-estate search in Georgia. Filters, 10 photos, owner phone, favorites.",
		"ka": "LivePlace: უძრავი ქონების სწრაფი ძიება საქართველოში. ფილტრები, 10 ფოტო, მფლობელის ნომერი, რჩეულები.",
	},

	"choose_mode":     {"ru": "Выберите режим:", "en": "Choose a mode:", "ka": "აირჩიეთ რეჟიმი:"},
	"choose_city":     {"ru": "Выберите город:", "en": "Choose a city:", "ka": "აირჩიეთ ქალაქი:"},
	"choose_district": {"ru": "Выберите район:", "en": "Choose a district:", "ka": "აირჩიეთ უბანი:"},
	"choose_rooms":    {"ru": "Выберите количество комнат:", "en": "How many rooms?", "ka": "რამდენი ოთახი?"},
	"price_method":    {"ru": "Как вы хотите указать цену?", "en": "How would you like to set the price?", "ka": "როგორ მიუთითებთ ფასს?"},
	"choose_range":    {"ru": "Выберите ценовой диапазон:", "en": "Choose a price range:", "ka": "აირჩიეთ ფასის დიაპაზონი:"},
	"enter_min": {
		"ru": "💰 <b>Укажите свой ценовой диапазон</b>\n\nВведите <b>минимальную</b> цену\n(например: 500 или 500$):",
		"en": "💰 <b>Set your own price range</b>\n\nEnter the <b>minimum</b> price\n(e.g. 500 or 500$):",
		"ka": "💰 <b>მიუთითეთ თქვენი ფასის დიაპაზონი</b>\n\nშეიყვანეთ <b>მინიმალური</b> ფასი\n(მაგ.: 500 ან 500$):",
	},
	"enter_max": {
		"ru": "Теперь введите <b>максимальную</b> цену\n(или напишите 'без ограничений'):",
		"en": "Now enter the <b>maximum</b> price\n(or type 'unlimited'):",
		"ka": "ახლა შეიყვანეთ <b>მაქსიმალური</b> ფასი\n(ან დაწერეთ 'ულიმიტო'):",
	},
	"bad_number":     {"ru": "❌ Пожалуйста, введите число (например: 1000):", "en": "❌ Please enter a number (e.g. 1000):", "ka": "❌ გთხოვთ შეიყვანოთ რიცხვი (მაგ.: 1000):"},
	"price_negative": {"ru": "❌ Цена не может быть отрицательной. Попробуйте снова:", "en": "❌ Price cannot be negative. Try again:", "ka": "❌ ფასი არ შეიძლება იყოს უარყოფითი. სცადეთ თავიდან:"},
	"unknown_mode":   {"ru": "Укажите rent/sale/daily", "en": "Please pick rent/sale/daily", "ka": "აირჩიეთ rent/sale/daily"},

	"nothing_found": {
		"ru": "❌ Ничего не найдено по вашим параметрам.\n\nПопробуйте изменить параметры поиска.",
		"en": "❌ Nothing matched your filters.\n\nTry changing the search parameters.",
		"ka": "❌ ვერაფერი მოიძებნა თქვენი პარამეტრებით.\n\nსცადეთ პარამეტრების შეცვლა.",
	},
	"viewed_all": {
		"ru": "🎉 Вы просмотрели все объявления!\n\nВыберите действие:",
		"en": "🎉 You've seen every listing!\n\nPick an action:",
		"ka": "🎉 ყველა განცხადება ნანახია!\n\nაირჩიეთ მოქმედება:",
	},
	"empty_list":  {"ru": "Список пуст.", "en": "The list is empty.", "ka": "სია ცარიელია."},
	"no_listings": {"ru": "Нет доступных объявлений.", "en": "No listings available.", "ka": "განცხადებები არ არის."},

	"lead_intro": {
		"ru": "📝 <b>Оставьте заявку</b>\n\nМы свяжемся с вами в ближайшее время!\n\nПожалуйста, напишите ваше <b>имя</b>:",
		"en": "📝 <b>Leave a request</b>\n\nWe'll get back to you shortly!\n\nPlease type your <b>name</b>:",
		"ka": "📝 <b>დატოვეთ განაცხადი</b>\n\nმალე დაგიკავშირდებით!\n\nგთხოვთ დაწეროთ თქვენი <b>სახელი</b>:",
	},
	"lead_phone": {
		"ru": "Отлично! Теперь укажите ваш <b>номер телефона</b>:\n(например: +995 555 123 456)",
		"en": "Great! Now type your <b>phone number</b>:\n(e.g. +995 555 123 456)",
		"ka": "კარგია! ახლა მიუთითეთ თქვენი <b>ტელეფონის ნომერი</b>:\n(მაგ.: +995 555 123 456)",
	},
	"lead_done": {
		"ru": "✅ <b>Спасибо!</b> Ваша заявка принята.\n\nМы свяжемся с вами в ближайшее время! 📞",
		"en": "✅ <b>Thank you!</b> Your request was received.\n\nWe'll contact you soon! 📞",
		"ka": "✅ <b>მადლობა!</b> თქვენი განაცხადი მიღებულია.\n\nმალე დაგიკავშირდებით! 📞",
	},

	"no_favs":      {"ru": "У вас пока нет избранных объявлений.", "en": "You have no favorites yet.", "ka": "ჯერ არ გაქვთ რჩეულები."},
	"quick_header": {"ru": "🟢 <b>Быстрый подбор</b>\n\nПоказываю лучшие новые объявления:", "en": "🟢 <b>Quick picks</b>\n\nShowing the best fresh listings:", "ka": "🟢 <b>სწრაფი არჩევანი</b>\n\nგაჩვენებთ საუკეთესო ახალ განცხადებებს:"},
	"menu_hint": {
		"ru": "Если хотите начать поиск — нажмите '🔎 Поиск' или '🟢 Быстрый подбор' в меню.",
		"en": "To start searching, tap '🔎 Search' or '🟢 Quick picks' in the menu.",
		"ka": "ძიების დასაწყებად დააჭირეთ '🔎 ძიება' ან '🟢 სწრაფი არჩევანი' მენიუში.",
	},
	"choose_action": {"ru": "Выберите действие:", "en": "Pick an action:", "ka": "აირჩიეთ მოქმედება:"},
	"found_count":   {"ru": "✅ Найдено объявлений: %d", "en": "✅ Listings found: %d", "ka": "✅ ნაპოვნია განცხადებები: %d"},
	"repeat_header": {"ru": "🔁 <b>Последние поиски</b>\n\nВыберите, какой повторить:", "en": "🔁 <b>Recent searches</b>\n\nPick one to run again:", "ka": "🔁 <b>ბოლო ძიებები</b>\n\nაირჩიეთ გასამეორებლად:"},
	"repeat_none":   {"ru": "Вы ещё ничего не искали.", "en": "You haven't searched yet.", "ka": "ჯერ არაფერი მოგიძებნიათ."},
	"card_counter":  {"ru": "📊 Объявление %d из %d", "en": "📊 Listing %d of %d", "ka": "📊 განცხადება %d / %d"},
	"choose_lang":   {"ru": "Выберите язык / Choose language / ენა", "en": "Выберите язык / Choose language / ენა", "ka": "Выберите язык / Choose language / ენა"},
	"photos_broken": {"ru": "⚠️ Фото недоступны", "en": "⚠️ Photos unavailable", "ka": "⚠️ ფოტოები მიუწვდომელია"},
}

// t resolves a string for a language with a Russian fallback.
func t(lang, key string) string {
	entry, ok := T[key]
	if !ok {
		return key
	}
	if v, ok := entry[lang]; ok && v != "" {
		return v
	}
	return entry["ru"]
}

// buttonTexts returns the key's text in every language, for matching
// incoming replies against reply-keyboard buttons.
func buttonTexts(key string) map[string]struct{} {
	out := make(map[string]struct{}, len(langs))
	for _, lang := range langs {
		out[t(lang, key)] = struct{}{}
	}
	return out
}

// "unlimited" phrases accepted at the max-price prompt.
var unlimitedWords = map[string]struct{}{
	"без ограничений": {}, "без ограничения": {}, "неограниченно": {},
	"no limit": {}, "unlimited": {}, "ულიმიტო": {},
}
