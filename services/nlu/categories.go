package nlu

import "regexp"

// Category is the closed set of intents the classifier can produce.
type Category string

const (
	CategoryPaymentMethods           Category = "payment_methods"
	CategoryPricing                  Category = "pricing"
	CategoryAvailability             Category = "availability"
	CategoryLodgingServices          Category = "lodging_services"
	CategoryRoomServices             Category = "room_services"
	CategorySpecificService          Category = "specific_service"
	CategoryMultiRoomServices        Category = "multi_room_services"
	CategoryReservationProcess       Category = "reservation_process"
	CategoryCapacityExceededSpecific Category = "capacity_exceeded_specific"
	CategoryCapacityExceededGeneral  Category = "capacity_exceeded_general"
	CategoryMultipleRoomReservation  Category = "multiple_room_reservation"
	CategoryServices                 Category = "services"
	CategoryLocation                 Category = "location"
	CategoryCheckin                  Category = "checkin"
	CategoryRooms                    Category = "rooms"
	CategoryPolicies                 Category = "policies"
	CategoryContact                  Category = "contact"
	CategoryGeneral                  Category = "general"
)

// categoryOrder fixes the evaluation order. Ties between non-reservation
// categories resolve to the earliest entry in this list.
var categoryOrder = []Category{
	CategoryPaymentMethods,
	CategoryPricing,
	CategoryAvailability,
	CategoryLodgingServices,
	CategoryRoomServices,
	CategorySpecificService,
	CategoryMultiRoomServices,
	CategoryReservationProcess,
	CategoryCapacityExceededSpecific,
	CategoryCapacityExceededGeneral,
	CategoryMultipleRoomReservation,
	CategoryServices,
	CategoryLocation,
	CategoryCheckin,
	CategoryRooms,
	CategoryPolicies,
	CategoryContact,
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

// categoryPatterns holds the per-category phrase patterns matched against the
// lower-cased message. Guest-facing text is Spanish.
var categoryPatterns = map[Category][]*regexp.Regexp{
	CategoryPaymentMethods: compileAll(
		`cómo.*pagar|como.*pagar|cómo.*puedo.*pagar|como.*puedo.*pagar`,
		`formas.*de.*pago|formas.*pago|métodos.*de.*pago|métodos.*pago|metodos.*pago`,
		`medios.*de.*pago|medios.*pago|qué.*medios.*pago|que.*medios.*pago`,
		`cuáles.*medios.*pago|cuales.*medios.*pago|qué.*medios.*tienen|que.*medios.*tienen`,
		`medios.*aceptan|medios.*reciben|métodos.*aceptan|metodos.*aceptan`,
		`opciones.*de.*pago|opciones.*pago|modalidades.*de.*pago|modalidades.*pago`,
		`cuáles.*son.*los.*métodos|cuales.*son.*los.*métodos|cuáles.*son.*los.*metodos|cuales.*son.*los.*metodos`,
		`cuáles.*son.*las.*formas|cuales.*son.*las.*formas|qué.*métodos.*hay|que.*métodos.*hay`,
		`de.*qué.*formas.*pagar|de.*que.*formas.*pagar|cómo.*se.*puede.*pagar|como.*se.*puede.*pagar`,
		`formas.*de.*abonar|formas.*abonar|modalidades.*abonar|opciones.*abonar`,
	),
	CategoryPricing: compileAll(
		`precio|costo|tarifa|vale|cuesta|cobran|dinero|plata|euros?|dolares?|pesos?`,
		`cuanto|cuánto|valor|monto|importe`,
		`barato|caro|económico|costoso`,
		`descuento|promoción|oferta|rebaja`,
		`que.*precio|precio.*tiene|que.*cuesta|cuanto.*sale`,
		`sale|por.*noche|por.*día|tarifas`,
		`cuál.*precio|cual.*precio|cuáles.*precios|cuales.*precios`,
		`qué.*tarifa|que.*tarifa|qué.*valor|que.*valor`,
		`cuánto.*sale|cuanto.*sale|cuánto.*cuesta|cuanto.*cuesta|cuánto.*abonar|cuanto.*abonar`,
		`cuánto.*tengo.*que.*pagar|cuanto.*tengo.*que.*pagar|cuánto.*debo.*pagar|cuanto.*debo.*pagar`,
		`estadía.*precio|estadía.*costo|estadia.*precio|estadia.*costo`,
		`habitación.*precio|habitación.*costo|habitacion.*precio|habitacion.*costo`,
		`para.*esas.*fechas.*precio|para.*esas.*fechas.*costo`,
		`sería.*precio|seria.*precio|sería.*costo|seria.*costo`,
	),
	CategoryAvailability: compileAll(
		`disponible|disponibilidad|libre|liberado|ocupado`,
		`lugar|lugares|espacio|espacios|plaza|plazas`,
		`habitación libre|habitación disponible|cupo|cupos|vacante|vacantes`,
		`opción|opciones|algo libre|algo disponible`,
		`te queda|tenés algo|hay algo|queda algo`,
		`fecha|día|semana|mes|calendario|finde|fin de semana`,
		`puedo|podemos|se puede|hay lugar|hay espacio`,
		`cuando|cuándo|desde|hasta|entre|para|en`,
	),
	CategoryLodgingServices: compileAll(
		`servicios\s+(del\s+)?hospedaje|servicios\s+(del\s+)?hotel|servicios\s+(del\s+)?lugar`,
		`que\s+servicios\s+tiene\s+(el\s+)?hospedaje|que\s+servicios\s+tiene\s+(el\s+)?hotel`,
		`con\s+que\s+servicios\s+cuenta\s+(el\s+)?hospedaje|con\s+que\s+servicios\s+cuenta\s+(el\s+)?hotel`,
		`comodidades\s+(del\s+)?hospedaje|comodidades\s+(del\s+)?hotel|comodidades\s+(del\s+)?lugar`,
		`que\s+tiene\s+(el\s+)?hospedaje|que\s+tiene\s+(el\s+)?hotel|que\s+tiene\s+(el\s+)?lugar`,
		`instalaciones\s+(del\s+)?hospedaje|instalaciones\s+(del\s+)?hotel|instalaciones\s+(del\s+)?lugar`,
		`qué\s+ofrece\s+(el\s+)?hospedaje|que\s+ofrece\s+(el\s+)?hospedaje|qué\s+ofrece\s+(el\s+)?hotel`,
		`servicios\s+generales|comodidades\s+generales|instalaciones\s+generales`,
		`servicios\s+incluidos|que\s+incluye\s+(la\s+)?estadía|que\s+incluye\s+(el\s+)?hospedaje`,
		`instalaciones\s+comunes|áreas\s+comunes|servicios\s+compartidos|zonas\s+comunes`,
		`que\s+servicios.*hospedaje|que\s+servicios.*hotel|hospedaje.*servicios|hotel.*servicios`,
		`piscina|pileta|spa|gimnasio|restaurant|restaurante|bar|cafetería|cafeteria`,
		`estacionamiento|parking|garage|garaje|recepción|lobby`,
		`wifi\s+gratuito|internet\s+gratis|desayuno\s+incluido|jardín|jardin|terraza\s+común`,
		`lavandería|lavanderia|servicio\s+de\s+limpieza|limpieza\s+general`,
		`seguridad|vigilancia|caja\s+fuerte|conserjería|conserje`,
	),
	CategoryRoomServices: compileAll(
		`servicios de la habitación|que tiene la habitación|comodidades de la suite`,
		`incluye la habitación|equipamiento|amenities de la habitación`,
		`qué hay en la habitación|servicios privados|comodidades privadas`,
		`qué viene con la habitación|equipado con|cuenta con`,
		`suite.*tiene|habitación.*incluye|habitación.*cuenta`,
		`aire acondicionado|calefacción|tv|televisión|minibar|refrigerador`,
		`baño privado|jacuzzi|hidromasaje|balcón|terraza privada`,
		`cocina equipada|kitchenette|escritorio|área de trabajo`,
		`esa habitación|esta habitación|la habitación|dicha habitación`,
		`esa suite|esta suite|la suite|dicha suite`,
		`con qué.*cuenta|con que.*cuenta|qué.*incluye|que.*incluye`,
		`servicios.*cuenta|comodidades.*tiene|amenities.*incluye`,
	),
	CategorySpecificService: compileAll(
		`tiene.*jacuzzi|hay.*jacuzzi|cuenta.*jacuzzi`,
		`tiene.*wifi|hay.*wifi|cuenta.*wifi`,
		`tiene.*aire.*acondicionado|hay.*aire|cuenta.*aire`,
		`tiene.*balcón|hay.*balcón|tiene.*cocina|hay.*cocina`,
		`tiene.*tv|hay.*tv|tiene.*televisión`,
		`tiene.*estacionamiento|hay.*estacionamiento`,
		`tiene.*desayuno|hay.*desayuno|incluye.*desayuno`,
		`tiene.*piscina|hay.*piscina|cuenta.*piscina`,
		`la.*habitación.*tiene.*\w+|el.*hospedaje.*tiene.*\w+`,
		`dispone.*de.*\w+|posee.*\w+`,
	),
	CategoryMultiRoomServices: compileAll(
		`servicios.*cada.*habitación|servicios.*cada.*habitacion|servicios.*de.*cada.*habitación`,
		`servicios.*todas.*habitaciones|servicios.*todas.*las.*habitaciones`,
		`servicios.*de.*todas|servicios.*de.*las.*tres|servicios.*las.*tres`,
		`que.*servicios.*cada.*habitación|que.*servicios.*cada.*habitacion`,
		`cada.*habitación.*servicios|cada.*habitacion.*servicios|todas.*habitaciones.*servicios`,
		`comodidades.*cada.*habitación|comodidades.*todas.*habitaciones`,
		`que.*tiene.*cada.*habitación|que.*tiene.*cada.*habitacion|que.*tiene.*cada.*una`,
	),
	CategoryReservationProcess: compileAll(
		`cómo.*puedo.*hacer.*para.*reservar|como.*puedo.*hacer.*para.*reservar`,
		`cómo.*puedo.*hacer.*una.*reserva|como.*puedo.*hacer.*una.*reserva`,
		`cómo.*puedo.*reservar|como.*puedo.*reservar`,
		`como.*hago.*para.*reservar|cómo.*hago.*para.*reservar`,
		`como.*reservo|cómo.*reservo|como.*me.*reservo`,
		`qué.*pasos.*debo.*seguir.*para.*reservar|que.*pasos.*debo.*seguir.*para.*reservar`,
		`cómo.*reservar|como.*reservar|quiero.*reservar|deseo.*reservar`,
		`hacer.*reserva|realizar.*reserva|efectuar.*reserva|proceder.*reserva`,
		`reservar.*habitación|reservar.*habitacion|reservar.*suite`,
		`proceso.*de.*reserva|proceso.*reserva|procedimiento.*reserva`,
		`pasos.*reserva|pasos.*para.*reservar|instrucciones.*reserva`,
		`reservar.*esto|reservar.*esta|reservar.*eso|reservar.*esa`,
		`la.*reservo|lo.*reservo|me.*la.*reservo|me.*lo.*reservo`,
		`continuar.*reserva|seguir.*reserva|proceder.*con.*reserva`,
		`confirmar.*reserva|asegurar.*reserva|apartar.*habitación|apartar.*suite`,
		`quiero.*la.*suite|quiero.*la.*habitación|quiero.*la.*habitacion`,
		`me.*interesa.*la.*suite|me.*interesa.*la.*habitación|me.*interesa.*la.*habitacion`,
	),
	CategoryCapacityExceededSpecific: compileAll(
		`suite.*\w+.*para.*\d+.*personas?`,
		`habitación.*\w+.*para.*\d+.*personas?`,
		`reservar.*la.*suite.*\w+.*para.*\d+`,
		`quiero.*la.*\w+.*para.*\d+.*personas?`,
		`me.*interesa.*la.*\w+.*para.*\d+.*personas?`,
	),
	CategoryCapacityExceededGeneral: compileAll(
		`para.*\d+.*personas?.*disponible`,
		`disponible.*para.*\d+.*personas?`,
		`somos.*\d+.*personas?.*disponible`,
		`grupo.*de.*\d+.*personas?.*lugar`,
		`familia.*de.*\d+.*disponibilidad`,
		`\d+.*huéspedes?.*disponible`,
		`lugar.*para.*\d+.*personas?`,
		`habitación.*para.*\d+.*personas?.*disponible`,
	),
	CategoryMultipleRoomReservation: compileAll(
		`reservar.*ambas?.*habitaciones?`,
		`reservar.*las.*dos.*habitaciones?`,
		`quiero.*reservar.*ambas?|puedo.*reservar.*ambas?`,
		`reservar.*\d+.*habitaciones?`,
		`quiero.*las.*dos.*habitaciones?`,
		`me.*quedo.*con.*ambas?|tomar.*ambas?.*habitaciones?`,
		`apartar.*ambas?.*habitaciones?`,
		`ambas?.*quisiera.*reservar|ambas?.*quiero.*reservar`,
		`las.*dos.*quisiera.*reservar|ambas?.*me.*interesa`,
		`reservar.*dos.*habitaciones?`,
		`confirmar.*ambas?.*habitaciones?|proceder.*con.*ambas?`,
		`continuar.*con.*ambas?.*habitaciones?`,
	),
	CategoryServices: compileAll(
		`servicio|servicios|incluye|incluido|ofrece|ofrecen`,
		`limpieza|toallas|sabanas|amenities`,
		`que tiene|que hay|cuenta con|dispone`,
	),
	CategoryLocation: compileAll(
		`donde|dónde|ubicación|ubicado|dirección|lugar`,
		`cerca|lejos|distancia|kilómetros|metros|km`,
		`centro|ciudad|pueblo|barrio`,
		`transporte|colectivo|bus|taxi|uber`,
		`como llegar|cómo llegar|llego|ir|voy`,
	),
	CategoryCheckin: compileAll(
		`check.?in|check.?out|entrada|salida|llegada`,
		`hora|horario|tiempo|cuando llegar|cuándo llegar`,
		`llave|código|acceso|ingreso`,
		`recepción|front desk`,
	),
	CategoryRooms: compileAll(
		`habitación|habitaciones|cuarto|room|rooms`,
		`cama|matrimonial|individual|doble|single|double`,
		`baño|ducha|bañera`,
		`vista|balcón|terraza|ventana`,
		`capacidad|personas|huéspedes|ocupantes`,
	),
	CategoryPolicies: compileAll(
		`política|políticas|reglas|normas`,
		`cancelación|cancelar|reembolso`,
		`mascotas|animales|perros|gatos`,
		`fumar|prohibido`,
		`niños|bebés`,
	),
	CategoryContact: compileAll(
		`contacto|teléfono|email|mail`,
		`llamar|escribir|comunicar|hablar`,
		`whatsapp|telegram|mensaje`,
		`propietario|administrador`,
	),
}
