package inventory

// Default returns the built-in reference table for the lab cluster,
// used when no hosts file is configured.
func Default() *Inventory {
	return New(map[string]Host{
		"snu185":  {Address: "147.46.92.185", Location: "신양", Owner: "공용"},
		"snu30":   {Address: "147.46.91.30", Location: "신양", Owner: "공용"},
		"snu188":  {Address: "147.46.92.188", Location: "신양", Owner: "태언"},
		"snu32":   {Address: "147.46.91.32", Location: "신양", Owner: "성환"},
		"snu35":   {Address: "147.46.91.35", Location: "신양", Owner: "지수"},
		"snu20":   {Address: "147.46.91.20", Location: "신양", Owner: "지환/공용"},
		"snu36":   {Address: "147.46.91.36", Location: "신양", Owner: "재석/공용"},
		"snu186":  {Address: "147.46.92.186", Location: "신양", Owner: "공용"},
		"snu44":   {Address: "147.46.92.44", Location: "신양", Owner: "공용"},
		"snu24":   {Address: "147.46.91.24", Location: "신양", Owner: "주현"},
		"snu22":   {Address: "147.46.91.22", Location: "신양", Owner: "공용"},
		"snu55":   {Address: "147.46.91.55", Location: "신양", Owner: "현웅"},
		"nm87":    {Address: "147.46.132.87", Location: "뉴미연", Owner: "희웅"},
		"nm20":    {Address: "147.47.132.20", Location: "뉴미연", Owner: "진"},
		"nm80":    {Address: "147.46.132.80", Location: "뉴미연", Owner: "용진"},
		"info107": {Address: "147.47.206.107", Location: "정보화", Owner: "지수"},
		"info100": {Address: "147.47.206.100", Location: "정보화", Owner: "브레인"},
		"info103": {Address: "147.47.206.103", Location: "정보화", Owner: "용호"},
		"info104": {Address: "147.47.206.104", Location: "정보화", Owner: "공용"},
		"info106": {Address: "147.47.206.106", Location: "정보화", Owner: "수민"},
		"info105": {Address: "147.47.206.105", Location: "정보화", Owner: "진우"},
		"snu234":  {Address: "147.47.190.234", Location: "303", Owner: "공용"},
		"snu233":  {Address: "147.47.190.233", Location: "303", Owner: "공용"},
	}, []string{"신양", "뉴미연", "정보화", "303"})
}
