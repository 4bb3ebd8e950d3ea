package handlers

import "net/http"

// Статические страницы, на которые провайдер возвращает пользователя
// после платежной формы. Итоговый статус заказа определяет вебхук,
// страницы только сообщают пользователю, что произошло.

const payReturnPage = `<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<title>Оплата принята</title>
</head>
<body>
<h1>Спасибо! Платеж обрабатывается.</h1>
<p>Как только банк подтвердит оплату, заказ перейдет в работу.
Статус заказа можно посмотреть в личном кабинете.</p>
</body>
</html>
`

const payFailPage = `<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<title>Оплата не прошла</title>
</head>
<body>
<h1>Платеж не прошел</h1>
<p>Деньги не списаны. Попробуйте оформить заказ еще раз
или выберите другой способ оплаты.</p>
</body>
</html>
`

// PayReturn обрабатывает GET /pay/return
func PayReturn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(payReturnPage))
}

// PayFail обрабатывает GET /pay/fail
func PayFail(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(payFailPage))
}
